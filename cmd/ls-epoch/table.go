package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/litescript/ls-epoch/internal/config"
	"github.com/litescript/ls-epoch/internal/metrics"
	"github.com/litescript/ls-epoch/internal/state"
)

// openTable loads cfg.DataFile into mgr and, with cfg.Watch, keeps it fresh.
// The returned loader is nil when no data file is configured. stop releases
// the watcher.
func openTable(ctx context.Context, cfg config.Config, mgr *state.Manager, log *zap.Logger, reg prometheus.Registerer) (loader *state.Loader, stop func(), err error) {
	stop = func() {}
	if cfg.DataFile == "" {
		log.Warn("no data file configured, only fixed conversions are available")
		return nil, stop, nil
	}

	opts := []state.LoaderOption{state.WithLogger(log)}
	if reg != nil {
		opts = append(opts, state.WithMetrics(metrics.NewReloads(reg)))
	}
	loader = state.NewLoader(cfg.DataFile, mgr, opts...)
	if err := loader.Reload(ctx); err != nil {
		return nil, stop, err
	}
	if !cfg.Watch {
		return loader, stop, nil
	}

	w, err := state.NewWatcher(loader, cfg.WatchDebounce, log)
	if err != nil {
		return nil, stop, err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, stop, err
	}
	go func() {
		// The loader logs each result; drain so the watcher never drops them.
		for range w.Reloads {
		}
	}()
	log.Info("watching data file", zap.String("path", cfg.DataFile), zap.Duration("debounce", cfg.WatchDebounce))
	return loader, w.Stop, nil
}
