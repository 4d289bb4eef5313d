package siteclass

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"SiteClass/internal/log"
	"SiteClass/internal/observability"
)

type Handler struct {
	MaxLayers int
	Metrics   *observability.Metrics
}

// Run validates and calculates in, recording the outcome.
func (h *Handler) Run(in Input) (Result, error) {
	start := time.Now()
	res, err := in.Run(h.MaxLayers)
	if err != nil {
		h.Metrics.CalculationFailed(ErrorCode(err))
		log.Infow("site class calculation rejected", "error", err)
		return Result{}, err
	}
	h.Metrics.CalculationDone(string(res.SiteClass), res.LayersUsed, time.Since(start))
	log.Infow("site class calculated",
		"depth_of_influence", res.DepthOfInfluence,
		"layers_used", res.LayersUsed,
		"weighted_vs", res.WeightedVelocity,
		"site_class", res.SiteClass,
	)
	return res, nil
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, fmt.Errorf("%w: malformed request payload", ErrInvalidInput))
		return
	}
	res, err := h.Run(input)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
