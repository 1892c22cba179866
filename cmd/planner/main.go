package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/mariekewagner2302-lang/travelplanner/internal/auth"
	"github.com/mariekewagner2302-lang/travelplanner/internal/cache"
	"github.com/mariekewagner2302-lang/travelplanner/internal/config"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
	"github.com/mariekewagner2302-lang/travelplanner/internal/planning"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// same shared secret as the user service; only verification happens here
	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())

	if err != nil {
		log.Error("token manager init failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	defer stop()

	var planCache cache.Cache = cache.NewMemory()

	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pctx, cancel := config.WithTimeout(2 * time.Second)
		err := rdb.Ping(pctx)
		cancel()

		if err != nil {
			log.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}

		defer rdb.Close()

		planCache = rdb
	}

	prom := observability.NewProm("travelplanner_planner", prometheus.DefaultRegisterer)

	engine := planning.NewEngineClient(cfg.PlanningEngineURL, nil)
	handler := planning.NewHandler(engine, planCache, cfg.PlanCacheTTL(), log, prom)

	router := planning.NewRouter(planning.RouterOptions{
		Env:         cfg.Env,
		Log:         log,
		Handler:     handler,
		Verifier:    tokens,
		CORSOrigins: cfg.CORSOrigins,
		Prom:        prom,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.PlannerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// plan generation waits on the engine; keep writes generous
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("planning service starting", "port", cfg.PlannerPort, "env", cfg.Env)
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
