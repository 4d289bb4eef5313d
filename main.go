package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"SiteClass/internal/auth"
	"SiteClass/internal/config"
	"SiteClass/internal/log"
	"SiteClass/internal/observability"
	"SiteClass/internal/repo"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
)

var wg sync.WaitGroup

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(cfg.LogDebug); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repo.NewPostgres(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	authEnv := &auth.Env{
		JWTKey:   []byte(cfg.TokenKey),
		Repo:     store,
		Clock:    clockwork.NewRealClock(),
		TokenTTL: cfg.TokenTTL,
		Secure:   cfg.TLSEnabled(),
	}

	router := mux.NewRouter()
	HandleList(router, Deps{
		Config:  cfg,
		Auth:    authEnv,
		Store:   store,
		Metrics: observability.NewMetrics(),
		Ping:    db.PingContext,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: log.Middleware(CORS(router)),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infow("starting server", "addr", cfg.HTTPAddr, "tls", cfg.TLSEnabled())
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
	wg.Wait()
	log.Info("server stopped")
}
