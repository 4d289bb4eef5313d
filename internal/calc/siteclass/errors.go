package siteclass

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrInsufficientDepth   = errors.New("total thickness is less than depth of influence")
	ErrInvalidVelocity     = errors.New("vsi must be greater than zero")
	ErrDegenerateAggregate = errors.New("invalid denominator in vs calculation")
	ErrInvalidDepth        = errors.New("depth of influence must be greater than zero")
	ErrInvalidInput        = errors.New("invalid input")
)

// ErrorCode maps a calculation error to the code returned by the API.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientDepth):
		return "insufficient_depth"
	case errors.Is(err, ErrInvalidVelocity):
		return "invalid_velocity"
	case errors.Is(err, ErrDegenerateAggregate):
		return "degenerate_profile"
	case errors.Is(err, ErrInvalidDepth):
		return "invalid_depth"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	}
	return "internal_error"
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError writes err as a JSON error body. Internal errors carry no description.
func WriteError(w http.ResponseWriter, err error) {
	code := ErrorCode(err)
	status := http.StatusUnprocessableEntity
	body := errorBody{Error: code, Description: err.Error()}
	switch code {
	case "invalid_input":
		status = http.StatusBadRequest
	case "internal_error":
		status = http.StatusInternalServerError
		body.Description = ""
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
