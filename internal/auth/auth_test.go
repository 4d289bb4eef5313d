package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"SiteClass/internal/repo"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int
	byName map[string]fakeUser
}

type fakeUser struct {
	id   int
	hash string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]fakeUser{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, login, _, hash string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[login]; ok {
		return 0, repo.ErrConflict
	}
	f.nextID++
	f.byName[login] = fakeUser{id: f.nextID, hash: hash}
	return f.nextID, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (int, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[login]
	if !ok {
		return 0, "", repo.ErrNotFound
	}
	return u.id, u.hash, nil
}

func newTestEnv() (*Env, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return &Env{
		JWTKey:   []byte("test-key"),
		Repo:     newFakeUsers(),
		Clock:    clock,
		TokenTTL: time.Hour,
	}, clock
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	env, _ := newTestEnv()

	rec := post(env.RegisterHandler, `{"login":"asha","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, sessionCookie(t, rec).HttpOnly)

	rec = post(env.RegisterHandler, `{"login":"asha","email":"other@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(env.LoginHandler, `{"login":"asha","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id, login, err := env.ParseToken(sessionCookie(t, rec).Value)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, "asha", login)
}

func TestLoginRejected(t *testing.T) {
	env, _ := newTestEnv()
	require.Equal(t, http.StatusCreated,
		post(env.RegisterHandler, `{"login":"asha","email":"a@example.com","password":"secret1"}`).Code)

	tests := map[string]struct {
		body string
		code int
	}{
		"wrong password": {`{"login":"asha","password":"nope123"}`, http.StatusUnauthorized},
		"unknown user":   {`{"login":"ravi","password":"secret1"}`, http.StatusUnauthorized},
		"missing fields": {`{"login":"asha"}`, http.StatusBadRequest},
		"bad json":       {`{`, http.StatusBadRequest},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.code, post(env.LoginHandler, tc.body).Code)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	env, _ := newTestEnv()
	assert.Equal(t, http.StatusBadRequest,
		post(env.RegisterHandler, `{"login":"asha","email":"a@example.com","password":"123"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		post(env.RegisterHandler, `{"login":" ","email":"a@example.com","password":"secret1"}`).Code)
}

func TestAuthMiddleware(t *testing.T) {
	env, clock := newTestEnv()
	token, _, err := env.IssueToken(7, "asha")
	require.NoError(t, err)

	var gotID int
	var gotLogin string
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotLogin = Login(r.Context())
	}))

	serve := func(cookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodGet, "/api/boreholes", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusUnauthorized, serve(&http.Cookie{Name: CookieName, Value: "garbage"}))

	assert.Equal(t, http.StatusOK, serve(&http.Cookie{Name: CookieName, Value: token}))
	assert.Equal(t, 7, gotID)
	assert.Equal(t, "asha", gotLogin)

	clock.Advance(2 * time.Hour)
	assert.Equal(t, http.StatusUnauthorized, serve(&http.Cookie{Name: CookieName, Value: token}))
}

func TestParseToken_WrongKey(t *testing.T) {
	env, _ := newTestEnv()
	token, _, err := env.IssueToken(1, "asha")
	require.NoError(t, err)

	other := *env
	other.JWTKey = []byte("another-key")
	_, _, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestPageMiddlewareAndRedirect(t *testing.T) {
	env, _ := newTestEnv()
	token, _, err := env.IssueToken(1, "asha")
	require.NoError(t, err)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	env.PageMiddleware(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/auth/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	env.RedirectIfLoggedIn(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutClearsCookie(t *testing.T) {
	env, _ := newTestEnv()
	rec := httptest.NewRecorder()
	env.LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Less(t, sessionCookie(t, rec).MaxAge, 0)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1000"))
}
