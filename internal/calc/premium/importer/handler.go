package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"SiteClass/internal/calc/siteclass"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Engine *siteclass.Handler
}

type ImportResult struct {
	Input  siteclass.Input  `json:"input"`
	Result siteclass.Result `json:"result"`
}

// Calc calculates the site class of a profile uploaded as an xlsx file.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "File too big", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	depth, err := strconv.ParseFloat(r.FormValue("depth_of_influence"), 64)
	if err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: depth_of_influence must be a number", siteclass.ErrInvalidInput))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	input, err := ReadWorkbook(file, depth)
	if err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: %v", siteclass.ErrInvalidInput, err))
		return
	}
	res, err := h.Engine.Run(input)
	if err != nil {
		siteclass.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImportResult{Input: input, Result: res})
}
