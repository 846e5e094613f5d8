// Package app wires the repositories, caches and services behind the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/blob"
	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/cache/memory"
	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/cache/redis"
	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/metrics"
	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/notify"
	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkfolio/pkg/config"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/services"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

const metricsNamespace = "linkfolio"

type App struct {
	Handler http.Handler

	Repo       *sqlite.SQLiteRepository
	Profiles   *services.ProfileService
	Onboarding *services.OnboardingService
	Checker    *services.UsernameChecker
	Engagement *services.EngagementService

	closers []func() error
}

// New builds the whole application from cfg. Close releases the database and cache connections.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &App{Repo: repo}
	a.closers = append(a.closers, repo.Close)

	var cache ports.CacheStore
	if cfg.RedisURL != "" {
		store, err := redis.NewStore(ctx, cfg.RedisURL, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		cache = store
	} else {
		logger.Info("REDIS_URL not set, using in-process dedup cache")
		cache = memory.NewStore()
	}

	blobs, err := blob.NewFileStore(cfg.BlobDir, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(metricsNamespace, reg)

	a.Checker = services.NewUsernameChecker(repo, m)
	a.Profiles = services.NewProfileService(repo)
	a.Onboarding = services.NewOnboardingService(repo, a.Checker, blobs, notify.NewLogNotifier(logger), m, logger)
	a.Engagement = services.NewEngagementService(repo, services.NewDeduper(cache, logger), m, logger)

	a.Handler = handler.NewRouter(cfg, handler.Services{
		Profiles:   a.Profiles,
		Onboarding: a.Onboarding,
		Checker:    a.Checker,
		Engagement: a.Engagement,
		Avatars:    blobs,
		Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, logger)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
