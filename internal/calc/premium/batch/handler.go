package batch

import (
	"encoding/json"
	"fmt"
	"net/http"

	"SiteClass/internal/calc/siteclass"
)

type Handler struct {
	Engine *siteclass.Handler
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input BatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: malformed request payload", siteclass.ErrInvalidInput))
		return
	}
	res, err := Calculate(r.Context(), input, h.Engine.Run)
	if err != nil {
		siteclass.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
