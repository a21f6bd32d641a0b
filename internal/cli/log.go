// Package cli implements the routefinder command-line interface.
//
// This package provides commands for searching flight schedules, exporting
// the travel graph, serving the search API, and managing the result cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - search: Find one-way or round-trip itineraries between two airports
//   - graph: Export the travel graph as DOT or SVG
//   - serve: Run the HTTP search API over a preloaded schedule
//   - cache: Manage the search result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Found 12 routes (41ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks writes pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLoad(_ context.Context, src string, flights int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", src, "error", err)
		return
	}
	h.logger.Debug("loaded schedule", "source", src, "flights", flights, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnGraphBuilt(_ context.Context, nodes, edges int, d time.Duration) {
	h.logger.Debug("built graph", "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnSearchComplete(_ context.Context, origin, dest string, routes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("search failed", "origin", origin, "destination", dest, "error", err)
		return
	}
	h.logger.Debug("searched routes", "origin", origin, "destination", dest, "routes", routes, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}
