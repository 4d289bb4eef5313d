package siteclass

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SiteClass/internal/log"
	"SiteClass/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandler_Calc(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	h := &Handler{MaxLayers: DefaultMaxLayers, Metrics: metrics}

	body := `{"depth_of_influence_m": 10, "layers": [
		{"thickness_m": 5, "soil_type": "Others", "vsi_m_s": 200},
		{"thickness_m": 5, "soil_type": "Others", "vsi_m_s": 400}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/tools/siteclass/calc", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Calc(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, ClassD, res.SiteClass)
	assert.InDelta(t, 266.67, res.WeightedVelocity, 0.01)
	assert.Len(t, res.Breakdown, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Calculations.WithLabelValues("D")))
}

func TestHandler_CalcMalformed(t *testing.T) {
	h := &Handler{}
	req := httptest.NewRequest(http.MethodPost, "/tools/siteclass/calc", strings.NewReader("{"))
	w := httptest.NewRecorder()

	h.Calc(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "invalid_input", body["error"])
}

func TestHandler_CalcRejectsShallowProfile(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	h := &Handler{Metrics: metrics}

	body := `{"depth_of_influence_m": 2, "layers": [{"thickness_m": 1, "soil_type": "Others", "vsi_m_s": 200}]}`
	req := httptest.NewRequest(http.MethodPost, "/tools/siteclass/calc", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Calc(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid_input", resp["error"])
	assert.Contains(t, resp["error_description"], "total thickness")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CalculationFailures.WithLabelValues("invalid_input")))
}

func TestWriteError_DomainFailure(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrInsufficientDepth)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "insufficient_depth", body["error"])
}

func TestWriteError_InternalOmitsDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "internal_error", body["error"])
	_, ok := body["error_description"]
	assert.False(t, ok)
}

func TestHandler_RunLogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log.SetLogger(zap.New(core))
	t.Cleanup(func() { log.SetLogger(zap.NewNop()) })

	h := &Handler{Metrics: observability.NewMetricsForTesting()}
	_, err := h.Run(Input{DepthOfInfluence: 2, Layers: []LayerInput{{Thickness: 2, SoilType: "other", Vsi: 400}}})
	require.NoError(t, err)

	entries := logs.FilterMessage("site class calculated").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, ClassC, entries[0].ContextMap()["site_class"])
}
