package borehole

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"SiteClass/internal/auth"
	"SiteClass/internal/calc/report"
	"SiteClass/internal/calc/siteclass"
	"SiteClass/internal/log"
	"SiteClass/internal/repo"

	"github.com/gorilla/mux"
)

// Handler serves the saved boreholes of the signed-in engineer.
type Handler struct {
	Repo    repo.BoreholeRepository
	Engine  *siteclass.Handler
	Reports *report.Handler
}

type CreateRequest struct {
	Name     string          `json:"name"`
	Location string          `json:"location"`
	Profile  siteclass.Input `json:"profile"`
}

func currentUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// load resolves {id} against the current user's boreholes.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (repo.Borehole, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return repo.Borehole{}, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Invalid borehole id", http.StatusBadRequest)
		return repo.Borehole{}, false
	}
	b, err := h.Repo.GetBorehole(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Borehole not found", http.StatusNotFound)
		return repo.Borehole{}, false
	}
	if err != nil {
		log.Errorw("load borehole failed", "user_id", userID, "borehole_id", id, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return repo.Borehole{}, false
	}
	return b, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: malformed request payload", siteclass.ErrInvalidInput))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		siteclass.WriteError(w, fmt.Errorf("%w: borehole name is required", siteclass.ErrInvalidInput))
		return
	}
	if err := req.Profile.Validate(h.Engine.MaxLayers); err != nil {
		siteclass.WriteError(w, err)
		return
	}

	b := repo.Borehole{
		OwnerID:  userID,
		Name:     req.Name,
		Location: strings.TrimSpace(req.Location),
		Profile:  req.Profile,
	}
	id, err := h.Repo.CreateBorehole(r.Context(), b)
	if err != nil {
		log.Errorw("create borehole failed", "user_id", userID, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	b.ID = id
	log.Infow("borehole saved", "user_id", userID, "borehole_id", id, "layers", len(b.Profile.Layers))
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Repo.ListBoreholes(r.Context(), userID)
	if err != nil {
		log.Errorw("list boreholes failed", "user_id", userID, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []repo.Borehole{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if b, ok := h.load(w, r); ok {
		writeJSON(w, http.StatusOK, b)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Invalid borehole id", http.StatusBadRequest)
		return
	}
	err = h.Repo.DeleteBorehole(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Borehole not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorw("delete borehole failed", "user_id", userID, "borehole_id", id, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calc computes the site class of a saved profile.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.Run(b.Profile)
	if err != nil {
		siteclass.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Report renders a saved profile's report, xlsx unless ?format=pdf.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: %v", siteclass.ErrInvalidInput, err))
		return
	}
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.Run(b.Profile)
	if err != nil {
		siteclass.WriteError(w, err)
		return
	}
	h.Reports.Serve(w, format, res, report.Meta{
		Project:  b.Name,
		Location: b.Location,
		Author:   auth.Login(r.Context()),
	})
}
