// Package compose is the per-output composition core of a display server.
//
// Once per vsync, it takes the current set of application-provided layers
// for one output (physical or virtual display) and turns them into a single
// displayed frame: deciding per layer whether the hardware composer can draw
// it directly or the compositor must blend it with the GPU, computing which
// pixels need redrawing, orchestrating buffer acquisition and present, and
// distributing release fences.
//
// See the sub-packages for the individual pipeline stages: region (region
// algebra), output/outputlayer (per-output state), visibility (the
// visibility & coverage pass), strategy (composition-strategy selection),
// colorprofile (color mode/dataspace selection), clientcomposition (the
// client composition pipeline), present (fence distribution), frame (the
// per-frame driver), scheduler (the refresh-rate scheduler), and connreg
// (the vsync-event connection registry).
package compose

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by compose and all its sub-packages.
// By default compose produces no log output. Pass nil to restore the
// default silent behavior.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically.
//
// compose logs only at [slog.LevelWarn], for recoverable failures: an
// unknown connection handle in connreg, and a client-composition error in
// frame. Dequeue failures and hardware-composer query failures are not
// logged, and nothing is logged at Debug or Info level.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by compose. Sub-packages call this
// to share logger configuration without an import cycle back to this
// package.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
