package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/config"
	dbRedis "github.com/kailas-cloud/abmeta/internal/db/redis"
	"github.com/kailas-cloud/abmeta/internal/domain/scheme"
	"github.com/kailas-cloud/abmeta/internal/metrics"
	"github.com/kailas-cloud/abmeta/internal/repository/doccache"
	itemrepo "github.com/kailas-cloud/abmeta/internal/repository/item"
	"github.com/kailas-cloud/abmeta/internal/transport/acousticbrainz"
	"github.com/kailas-cloud/abmeta/internal/transport/sidecar"
	fetchuc "github.com/kailas-cloud/abmeta/internal/usecase/fetch"
	healthuc "github.com/kailas-cloud/abmeta/internal/usecase/health"
	itemuc "github.com/kailas-cloud/abmeta/internal/usecase/item"
	"github.com/kailas-cloud/abmeta/internal/usecase/mapping"
)

const healthCheckTimeout = 5 * time.Second

// app is the composition root shared by serve and fetch.
type app struct {
	store  *dbRedis.Store
	mapper *mapping.Mapper
	items  *itemuc.Service
	fetch  *fetchuc.Service
	health *healthuc.Service
}

// newApp connects to the database and wires every service.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	mapper, err := buildMapper(cfg.Scheme)
	if err != nil {
		return nil, err
	}

	// Valkey and Redis share the wire protocol; one rueidis store serves both.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		Standalone: cfg.Database.Standalone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.Strings("addrs", cfg.Database.Addrs),
	)

	metrics.Register()

	client := acousticbrainz.NewClient(&acousticbrainz.Config{
		BaseURL: cfg.AcousticBrainz.BaseURL,
		Timeout: cfg.AcousticBrainz.Timeout(),
		Logger:  logger,
	})
	fetcher := doccache.New(client, store, cfg.AcousticBrainz.CacheTTL(), metrics.DocumentCacheTotal, logger)

	itemRepo := itemrepo.New(store)

	fetchSvc := fetchuc.New(itemRepo, fetcher, mapper, logger).
		WithWorkers(cfg.Fetch.Workers).
		WithTimeout(cfg.AcousticBrainz.Timeout()).
		WithAuto(cfg.Fetch.AutoEnabled())
	if w := sidecar.New(cfg.Write.Dir, cfg.Write.NextToMediaEnabled()); w.Enabled() {
		fetchSvc = fetchSvc.WithWriter(w)
	}

	return &app{
		store:  store,
		mapper: mapper,
		items:  itemuc.New(itemRepo),
		fetch:  fetchSvc,
		health: healthuc.New(store, client).WithTimeout(healthCheckTimeout),
	}, nil
}

// Close releases the database connection.
func (a *app) Close() { a.store.Close() }

// buildMapper loads the configured scheme, or the built-in one.
func buildMapper(cfg config.SchemeConfig) (*mapping.Mapper, error) {
	s := scheme.Default()
	if cfg.File != "" {
		var err error
		if s, err = scheme.Load(cfg.File); err != nil {
			return nil, err
		}
	}
	return mapping.NewMapper(s, cfg.Policy()), nil
}

// httpServer builds the API server from the HTTP config section.
func httpServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
}
