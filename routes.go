package main

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"SiteClass/internal/auth"
	"SiteClass/internal/borehole"
	"SiteClass/internal/calc/premium/batch"
	"SiteClass/internal/calc/premium/importer"
	"SiteClass/internal/calc/report"
	"SiteClass/internal/calc/siteclass"
	"SiteClass/internal/config"
	"SiteClass/internal/observability"
	"SiteClass/internal/repo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Store interface {
	repo.UserRepository
	repo.BoreholeRepository
}

// Deps is everything the router needs from main.
type Deps struct {
	Config  *config.Config
	Auth    *auth.Env
	Store   Store
	Metrics *observability.Metrics
	Ping    func(context.Context) error
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthz(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	}
}

func HandleList(router *mux.Router, d Deps) {
	cfg := d.Config
	engine := &siteclass.Handler{MaxLayers: cfg.MaxLayers, Metrics: d.Metrics}
	reportH := &report.Handler{Engine: engine, Metrics: d.Metrics}
	importH := &importer.Handler{Engine: engine}
	batchH := &batch.Handler{Engine: engine}
	boreholeH := &borehole.Handler{Repo: d.Store, Engine: engine, Reports: reportH}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz(d.Ping)).Methods(http.MethodGet)

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", d.Auth.LoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/register", d.Auth.RegisterHandler).Methods(http.MethodPost)
	api.HandleFunc("/logout", d.Auth.LogoutHandler).Methods(http.MethodPost)

	secureAPI := api.PathPrefix("/user").Subrouter()
	secureAPI.Use(d.Auth.AuthMiddleware)

	secureAPI.HandleFunc("/tools/siteclass/calc", engine.Calc).Methods(http.MethodPost)
	secureAPI.HandleFunc("/tools/siteclass/report", reportH.Generate).Methods(http.MethodPost)
	secureAPI.HandleFunc("/tools/siteclass/import", importH.Calc).Methods(http.MethodPost)
	secureAPI.HandleFunc("/tools/siteclass/batch", batchH.Calc).Methods(http.MethodPost)

	secureAPI.HandleFunc("/boreholes", boreholeH.Create).Methods(http.MethodPost)
	secureAPI.HandleFunc("/boreholes", boreholeH.List).Methods(http.MethodGet)
	secureAPI.HandleFunc("/boreholes/{id:[0-9]+}", boreholeH.Get).Methods(http.MethodGet)
	secureAPI.HandleFunc("/boreholes/{id:[0-9]+}", boreholeH.Delete).Methods(http.MethodDelete)
	secureAPI.HandleFunc("/boreholes/{id:[0-9]+}/calc", boreholeH.Calc).Methods(http.MethodPost)
	secureAPI.HandleFunc("/boreholes/{id:[0-9]+}/report", boreholeH.Report).Methods(http.MethodGet)

	static := cfg.StaticDir
	authFileServer := http.FileServer(http.Dir(filepath.Join(static, "auth")))
	router.PathPrefix("/auth/").
		Handler(d.Auth.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mainFileServer := http.FileServer(http.Dir(filepath.Join(static, "main")))
	router.PathPrefix("/").
		Handler(d.Auth.PageMiddleware(mainFileServer))
}
