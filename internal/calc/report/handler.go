package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"SiteClass/internal/calc/siteclass"
	"SiteClass/internal/log"
	"SiteClass/internal/observability"
)

type Request struct {
	siteclass.Input
	Meta
}

type Handler struct {
	Engine  *siteclass.Handler
	Metrics *observability.Metrics
}

// Generate calculates the submitted profile and returns the report as an
// attachment, xlsx unless ?format=pdf.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: %v", siteclass.ErrInvalidInput, err))
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		siteclass.WriteError(w, fmt.Errorf("%w: malformed request payload", siteclass.ErrInvalidInput))
		return
	}
	res, err := h.Engine.Run(req.Input)
	if err != nil {
		siteclass.WriteError(w, err)
		return
	}
	h.Serve(w, format, res, req.Meta)
}

// Serve renders res into a buffer and writes it as a download.
func (h *Handler) Serve(w http.ResponseWriter, format Format, res siteclass.Result, meta Meta) {
	var buf bytes.Buffer
	if err := Write(&buf, format, res, meta); err != nil {
		log.Errorw("report generation failed", "format", format, "error", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	h.Metrics.ReportGenerated(string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"site-class-report.%s\"", format))
	w.Write(buf.Bytes())
}
