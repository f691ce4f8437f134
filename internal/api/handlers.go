// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package api serves the dashboard, ETL and health endpoints over HTTP.
package api

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/filmdash/internal/cache"
	"github.com/tomtom215/filmdash/internal/config"
	"github.com/tomtom215/filmdash/internal/etl"
	"github.com/tomtom215/filmdash/internal/logging"
	"github.com/tomtom215/filmdash/internal/metrics"
	"github.com/tomtom215/filmdash/internal/models"
	ws "github.com/tomtom215/filmdash/internal/websocket"
)

// Version is reported by the health endpoint. Set with -ldflags at build time.
var Version = "dev"

// datasetCacheKey holds the denormalized movie rows.
const datasetCacheKey = "movies:denormalized"

// MovieStore is the read side of the database used by the handlers.
type MovieStore interface {
	LoadMovies(ctx context.Context) ([]models.Movie, error)
	TableCounts(ctx context.Context) (map[string]int, error)
	Ping(ctx context.Context) error
}

// ETLRunner triggers and reports ETL runs.
type ETLRunner interface {
	Run(ctx context.Context) (*etl.RunStats, error)
	Running() bool
	LastRun() *etl.RunStats
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, dataset cache
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: health endpoints
//   - handlers_etl.go: ETL trigger and status
//   - handlers_dashboard.go: dashboard, movies and genre endpoints
//   - handlers_ws.go: ETL progress websocket
type Handler struct {
	store     MovieStore
	etl       ETLRunner
	config    *config.Config
	cache     *cache.Cache
	loads     singleflight.Group
	startTime time.Time
	wsHub     *ws.Hub

	// generation is bumped by ClearCache; a load that started before the
	// bump does not populate the cache.
	generation atomic.Uint64
}

// NewHandler creates a handler. The dataset cache TTL comes from
// cfg.Cache.TTL.
func NewHandler(store MovieStore, runner ETLRunner, cfg *config.Config) *Handler {
	ttl := cache.DefaultTTL
	if cfg != nil && cfg.Cache.TTL > 0 {
		ttl = cfg.Cache.TTL
	}

	return &Handler{
		store:     store,
		etl:       runner,
		config:    cfg,
		cache:     cache.New(ttl),
		startTime: time.Now(),
	}
}

// SetWSHub attaches the hub that streams ETL progress. Without one the
// websocket endpoint answers 503.
func (h *Handler) SetWSHub(hub *ws.Hub) {
	h.wsHub = hub
}

// ClearCache drops the cached dataset so the next request re-reads it.
func (h *Handler) ClearCache() {
	h.generation.Add(1)
	if h.cache != nil {
		h.cache.Clear()
		logging.Info().Msg("Dataset cache cleared")
	}
}

// OnETLComplete is registered with the ETL runner and invalidates the
// dataset cache after every successful run.
func (h *Handler) OnETLComplete(ctx context.Context, stats *etl.RunStats) {
	h.ClearCache()
	logging.Ctx(ctx).Info().
		Int("rows_loaded", stats.RowsLoaded()).
		Dur("duration", stats.Duration()).
		Msg("Dataset refreshed after ETL run")
}

// movies returns the denormalized dataset, from the cache when possible.
// Concurrent misses share one database read.
func (h *Handler) movies(ctx context.Context) (movies []models.Movie, cached bool, err error) {
	if v, ok := h.cache.Get(datasetCacheKey); ok {
		if movies, ok := v.([]models.Movie); ok {
			metrics.RecordDatasetCache(true)
			return movies, true, nil
		}
	}
	metrics.RecordDatasetCache(false)

	gen := h.generation.Load()
	v, err, _ := h.loads.Do(datasetCacheKey, func() (interface{}, error) {
		// Shared by every waiting caller, so it must outlive the first one.
		movies, err := h.store.LoadMovies(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if h.generation.Load() == gen {
			h.cache.Set(datasetCacheKey, movies)
		}
		logging.Ctx(ctx).Debug().Int("rows", len(movies)).Msg("Dataset cached")
		return movies, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]models.Movie), false, nil
}
