package state

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/metrics"
)

// Loader reads the table file and installs it in a Manager.
type Loader struct {
	path    string
	mgr     *Manager
	log     *zap.Logger
	reloads *metrics.Reloads
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger for load results.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// WithMetrics records every reload in r.
func WithMetrics(r *metrics.Reloads) LoaderOption {
	return func(l *Loader) {
		l.reloads = r
	}
}

// NewLoader creates a loader for the CSV file at path.
func NewLoader(path string, mgr *Manager, opts ...LoaderOption) *Loader {
	l := &Loader{
		path: path,
		mgr:  mgr,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadResult contains the result of a load operation.
type LoadResult struct {
	Table    *eop.Table
	LoadedAt time.Time
	Duration time.Duration
	Error    error
}

// LoadFile opens and parses a table file.
func LoadFile(path string) (*eop.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	table, err := eop.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// Load reads the file without touching the manager.
func (l *Loader) Load(ctx context.Context) LoadResult {
	start := time.Now()
	result := LoadResult{LoadedAt: start}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	result.Table, result.Error = LoadFile(l.path)
	result.Duration = time.Since(start)
	return result
}

// Reload loads the file and installs it. On failure the previous table stays.
func (l *Loader) Reload(ctx context.Context) error {
	res := l.Load(ctx)
	l.mgr.Update(res.Table, l.path, res.Duration, res.Error)

	if res.Error != nil {
		l.log.Warn("table reload failed", zap.String("path", l.path), zap.Error(res.Error))
		if l.reloads != nil {
			l.reloads.Failed()
		}
		return res.Error
	}

	fields := []zap.Field{
		zap.String("path", l.path),
		zap.Int("records", res.Table.Len()),
		zap.Duration("took", res.Duration),
	}
	var lastMJD float64
	if first, last, ok := res.Table.Span(); ok {
		lastMJD = last.MJD()
		fields = append(fields, zap.Float64("first_mjd", first.MJD()), zap.Float64("last_mjd", lastMJD))
	}
	if p, ok := res.Table.Predicted(); ok {
		fields = append(fields, zap.Float64("predicted_from_mjd", p.Time.MJD()))
	}
	l.log.Info("table loaded", fields...)
	if l.reloads != nil {
		l.reloads.Succeeded(res.Table.Len(), lastMJD)
	}
	return nil
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}
