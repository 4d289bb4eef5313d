package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SiteClass/internal/auth"
	"SiteClass/internal/config"
	"SiteClass/internal/observability"
	"SiteClass/internal/repo"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyStore struct{}

func (emptyStore) CreateUser(context.Context, string, string, string) (int, error) {
	return 0, repo.ErrConflict
}

func (emptyStore) GetByLogin(context.Context, string) (int, string, error) {
	return 0, "", repo.ErrNotFound
}

func (emptyStore) CreateBorehole(context.Context, repo.Borehole) (int, error) { return 1, nil }

func (emptyStore) ListBoreholes(context.Context, int) ([]repo.Borehole, error) { return nil, nil }

func (emptyStore) GetBorehole(context.Context, int, int) (repo.Borehole, error) {
	return repo.Borehole{}, repo.ErrNotFound
}

func (emptyStore) DeleteBorehole(context.Context, int, int) error { return repo.ErrNotFound }

func newTestServer(t *testing.T, ping func(context.Context) error) (http.Handler, *auth.Env) {
	t.Helper()
	env := &auth.Env{
		JWTKey: []byte("test-key"),
		Repo:   emptyStore{},
		Clock:  clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	router := mux.NewRouter()
	HandleList(router, Deps{
		Config: &config.Config{
			RateLimit: 100,
			RateBurst: 100,
			MaxLayers: 20,
			StaticDir: t.TempDir(),
		},
		Auth:    env,
		Store:   emptyStore{},
		Metrics: observability.NewMetricsForTesting(),
		Ping:    ping,
	})
	return CORS(router), env
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, func(context.Context) error { return nil })
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h, _ = newTestServer(t, func(context.Context) error { return errors.New("down") })
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSecureRoutesNeedSession(t *testing.T) {
	h, env := newTestServer(t, nil)
	body := `{"depth_of_influence_m": 2, "layers": [{"thickness_m": 2, "soil_type": "other", "vsi_m_s": 800}]}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/siteclass/calc", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := env.IssueToken(1, "asha")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/siteclass/calc", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"site_class":"B"`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPagesRedirectToLogin(t *testing.T) {
	h, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/", rec.Header().Get("Location"))
}
