package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"hospital-directory/internal/config"
	"hospital-directory/internal/database"
	"hospital-directory/internal/handler"
	"hospital-directory/internal/observability"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/router"
	"hospital-directory/internal/service"
	"hospital-directory/internal/session"
	"hospital-directory/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// runServe wires the application and serves HTTP until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 1. Logging and tracing
	log := observability.NewLogger(cfg.Server.Env)
	slog.SetDefault(log)

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		log.Error("tracing init failed", "err", err)
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	// 2. Database
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		observability.LogError(ctx, log, "database connection failed", err)
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 3. Session registry
	checks := map[string]handler.Pinger{}
	sessions, closeSessions, err := newSessionStore(ctx, cfg, log, checks)
	if err != nil {
		observability.LogError(ctx, log, "session store unavailable", err)
		return err
	}
	defer closeSessions()

	// 4. Repositories and services
	hospitalRepo := repository.NewHospitalRepo(db)
	serviceRepo := repository.NewServiceRepo(db)
	checks["database"] = hospitalRepo

	hasher := utils.NewBcryptHasher()
	authService := service.NewAuthService(hospitalRepo, sessions, hasher, log)
	hospitalService := service.NewHospitalService(hospitalRepo, hasher, log)
	catalogService := service.NewCatalogService(serviceRepo, authService, log)

	// 5. Metrics and the stats worker
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	statsWorker := service.NewStatsWorker(hospitalRepo, serviceRepo, sessions, prom, cfg.Stats.Interval, log)
	go statsWorker.Start(workerCtx)

	// 6. HTTP
	gin.SetMode(cfg.Server.GinMode)
	r := router.NewRouter(router.Deps{
		Config:    cfg,
		Log:       log,
		Gatherer:  reg,
		Prom:      prom,
		Auth:      authService,
		Hospitals: hospitalService,
		Catalog:   catalogService,
		Checks:    checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	stopWorker()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("server exited")
	return nil
}

// newSessionStore builds the configured token registry and registers its readiness check.
func newSessionStore(ctx context.Context, cfg *config.Config, log *slog.Logger, checks map[string]handler.Pinger) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case "redis":
		rdb := session.NewRedisClient(session.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		store := session.NewRedisStore(rdb, cfg.Session.KeyPrefix)
		if err := store.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		checks["sessions"] = store
		log.Info("session store ready", "backend", "redis", "addr", cfg.Session.RedisAddr)
		return store, func() { _ = rdb.Close() }, nil
	default:
		log.Warn("sessions are held in process memory and are lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	}
}
