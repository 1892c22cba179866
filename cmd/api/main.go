package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/mariekewagner2302-lang/travelplanner/internal/auth"
	"github.com/mariekewagner2302-lang/travelplanner/internal/config"
	"github.com/mariekewagner2302-lang/travelplanner/internal/db"
	httpx "github.com/mariekewagner2302-lang/travelplanner/internal/http"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo"
	"github.com/mariekewagner2302-lang/travelplanner/internal/repo/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// signing secret is a startup precondition, never a per-request error
	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())

	if err != nil {
		log.Error("token manager init failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	defer stop()

	tracing := cfg.OTLPEndpoint != ""

	if tracing {
		shutdownTracer, err := observability.InitTracer(ctx, "user-service", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			tctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(tctx)
		}()
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(ctx, pool, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm("travelplanner", prometheus.DefaultRegisterer)

	users := repo.InstrumentUsers(postgres.NewUsersRepo(pool), prom)
	sessions := postgres.NewSessionsRepo(pool)

	svc := auth.NewService(users, repo.InstrumentSessions(sessions, prom), tokens, log, uuid.NewString)

	// reap expired session rows in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rctx, cancel := config.WithTimeout(30 * time.Second)
				n, err := sessions.DeleteExpired(rctx, time.Now().UTC())
				cancel()

				if err != nil {
					log.Error("session reap failed", "err", err)
				} else if n > 0 {
					log.Info("reaped expired sessions", "count", n)
				}
			}
		}
	}()

	ping := func() error {
		pctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()
		return pool.Ping(pctx)
	}

	router := httpx.NewRouter(httpx.RouterOptions{
		Env:         cfg.Env,
		Log:         log,
		Auth:        svc,
		Ping:        ping,
		CORSOrigins: cfg.CORSOrigins,
		Prom:        prom,
		Tracing:     tracing,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("user service starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(10 * time.Second)

	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return
	}

	log.Info("shutdown complete")
}
