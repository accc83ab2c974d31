package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inventory"
	"github.com/hyperjump/docsearch/internal/scheduler"
	"github.com/hyperjump/docsearch/internal/search"
	"github.com/hyperjump/docsearch/internal/watcher"
	"go.uber.org/zap"
)

// app holds the long-lived components shared by the server and mcp commands.
type app struct {
	engine    *search.Engine
	scheduler *scheduler.Scheduler
	watcher   *watcher.Watcher
	logger    *zap.Logger
}

func newFetcher(cfg *config.Config, logger *zap.Logger) *inventory.Fetcher {
	return inventory.NewFetcher(
		inventory.WithPath(cfg.Docs.InventoryPath),
		inventory.WithTimeout(cfg.Docs.FetchTimeout),
		inventory.WithUserAgent(cfg.Docs.UserAgent),
		inventory.WithRetryDelays(cfg.Docs.RetryDelays),
		inventory.WithLogger(logger),
	)
}

// newEngine loads the inventory once. A failed first fetch is fatal.
func newEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*search.Engine, error) {
	engine, err := search.New(ctx, newFetcher(cfg, logger), cfg.Docs.URL, &cfg.Search, search.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load documentation from %s: %w", cfg.Docs.URL, err)
	}
	return engine, nil
}

// startApp loads the inventory and starts periodic refresh, plus a file
// watcher when the documentation is local and watching is enabled.
func startApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, debug bool) (*app, error) {
	engine, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{engine: engine, logger: logger}

	a.scheduler = scheduler.New(engine, cfg.Docs.CacheTimeout(),
		scheduler.WithLogger(logger),
		scheduler.WithMinTriggerInterval(cfg.Refresh.MinManualInterval),
		scheduler.WithRefreshTimeout(refreshBudget(cfg)),
	)
	if err := a.scheduler.Start(ctx); err != nil {
		return nil, err
	}

	if cfg.Docs.IsLocal() && cfg.Docs.WatchLocal {
		var opts []watcher.WatcherOption
		if debug {
			opts = append(opts, watcher.WithLogger(logger))
		}
		a.watcher = watcher.NewWatcher(cfg.Docs.LocalInventoryPath(), func(path string) {
			logger.Info("local inventory changed", zap.String("path", path))
			if err := engine.Refresh(ctx); err != nil {
				logger.Warn("refresh after inventory change failed", zap.Error(err))
			}
		}, opts...)
		if err := a.watcher.Start(ctx); err != nil {
			a.scheduler.Stop()
			return nil, fmt.Errorf("failed to watch %s: %w", cfg.Docs.LocalInventoryPath(), err)
		}
	}
	return a, nil
}

// refreshBudget bounds one refresh: the fetch timeout for every attempt plus the retry delays.
func refreshBudget(cfg *config.Config) (d time.Duration) {
	attempts := len(cfg.Docs.RetryDelays) + 1
	d = cfg.Docs.FetchTimeout * time.Duration(attempts)
	for _, delay := range cfg.Docs.RetryDelays {
		d += delay
	}
	return d
}

func (a *app) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.scheduler.Stop()
}
