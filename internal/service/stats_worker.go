package service

import (
	"context"
	"log/slog"
	"time"

	"hospital-directory/internal/observability"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/session"
)

const defaultStatsInterval = 30 * time.Second

// StatsWorker periodically publishes directory size gauges.
type StatsWorker struct {
	hospitalRepo *repository.HospitalRepository
	serviceRepo  *repository.ServiceRepository
	sessions     session.Store
	prom         *observability.Prom
	interval     time.Duration
	log          *slog.Logger
}

func NewStatsWorker(
	hospitalRepo *repository.HospitalRepository,
	serviceRepo *repository.ServiceRepository,
	sessions session.Store,
	prom *observability.Prom,
	interval time.Duration,
	log *slog.Logger,
) *StatsWorker {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	return &StatsWorker{
		hospitalRepo: hospitalRepo,
		serviceRepo:  serviceRepo,
		sessions:     sessions,
		prom:         prom,
		interval:     interval,
		log:          log,
	}
}

// Start refreshes the gauges immediately and then on every tick until ctx is done.
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("stats worker started", "interval", w.interval.String())

	w.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("stats worker stopped")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh runs one collection pass. A failing source leaves its gauge at the last value.
func (w *StatsWorker) Refresh(ctx context.Context) {
	if n, err := w.hospitalRepo.CountHospitals(ctx); err != nil {
		w.fail(ctx, "hospitals", err)
	} else {
		w.prom.Hospitals.Set(float64(n))
	}

	if n, err := w.serviceRepo.CountServices(ctx); err != nil {
		w.fail(ctx, "services", err)
	} else {
		w.prom.Services.Set(float64(n))
	}

	if n, err := w.sessions.Len(ctx); err != nil {
		w.fail(ctx, "sessions", err)
	} else {
		w.prom.ActiveSessions.Set(float64(n))
	}
}

func (w *StatsWorker) fail(ctx context.Context, source string, err error) {
	if ctx.Err() != nil {
		return
	}
	w.prom.StatsErrors.Inc()
	w.log.WarnContext(ctx, "stats refresh failed", "source", source, "err", err)
}
