package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"SiteClass/internal/log"
	"SiteClass/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName        = "session_token"
	DefaultTokenTTL   = 30 * 24 * time.Hour
	minPasswordLength = 6
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	loginKey  contextKey = "userLogin"
)

// Env carries what the auth handlers need: signing key, user store and clock.
type Env struct {
	JWTKey   []byte
	Repo     repo.UserRepository
	Clock    clockwork.Clock
	TokenTTL time.Duration
	// Secure marks the session cookie HTTPS-only.
	Secure bool
}

type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type claims struct {
	UserID int    `json:"user_id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// WithUser stores the authenticated engineer in ctx.
func WithUser(ctx context.Context, userID int, login string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, loginKey, login)
}

// UserID returns the authenticated engineer's id.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id != 0
}

func Login(ctx context.Context) string {
	login, _ := ctx.Value(loginKey).(string)
	return login
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Env) clock() clockwork.Clock {
	if env.Clock == nil {
		return clockwork.NewRealClock()
	}
	return env.Clock
}

func (env *Env) ttl() time.Duration {
	if env.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return env.TokenTTL
}

// IssueToken signs an HS256 session token for the user.
func (env *Env) IssueToken(userID int, login string) (string, time.Time, error) {
	now := env.clock().Now()
	expires := now.Add(env.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(env.JWTKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expires, nil
}

// ParseToken validates the signature and expiry of a session token.
func (env *Env) ParseToken(tokenString string) (int, string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		return env.JWTKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(env.clock().Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, "", err
	}
	if c.UserID == 0 || c.Login == "" {
		return 0, "", errors.New("token without user")
	}
	return c.UserID, c.Login, nil
}

func (env *Env) authenticate(r *http.Request) (context.Context, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	userID, login, err := env.ParseToken(cookie.Value)
	if err != nil {
		log.Debugw("session token rejected", "error", err)
		return nil, false
	}
	return WithUser(r.Context(), userID, login), true
}

// AuthMiddleware rejects API requests without a valid session.
func (env *Env) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := env.authenticate(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PageMiddleware sends visitors without a session to the login page.
func (env *Env) PageMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := env.authenticate(r)
		if !ok {
			http.Redirect(w, r, "/auth/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (env *Env) RedirectIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := env.authenticate(r); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (env *Env) setCookie(w http.ResponseWriter, userID int, login string) error {
	token, expires, err := env.IssueToken(userID, login)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   env.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func decodeCredentials(r *http.Request) (Credentials, error) {
	var c Credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return Credentials{}, err
	}
	c.Login = strings.TrimSpace(c.Login)
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

func (env *Env) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Login == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Login, email and password required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPasswordLength {
		http.Error(w, "Password too short", http.StatusBadRequest)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	id, err := env.Repo.CreateUser(r.Context(), req.Login, req.Email, hashed)
	if errors.Is(err, repo.ErrConflict) {
		http.Error(w, "User already exists", http.StatusConflict)
		return
	}
	if err != nil {
		log.Errorw("create user failed", "login", req.Login, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	if err := env.setCookie(w, id, req.Login); err != nil {
		log.Errorw("issue session failed", "error", err)
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	log.Infow("engineer registered", "user_id", id, "login", req.Login)
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("Registration successful"))
}

func (env *Env) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}

	id, storedHash, err := env.Repo.GetByLogin(r.Context(), req.Login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.Errorw("lookup user failed", "login", req.Login, "error", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		return
	}

	if err := env.setCookie(w, id, req.Login); err != nil {
		log.Errorw("issue session failed", "error", err)
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Authentication successful"))
}

func (env *Env) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   env.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
