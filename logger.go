package maplabel

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards records. Enabled reports false, so per-label debug
// calls on the render path never format their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr is read by layout workers and the render thread alike.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger routes the diagnostics of every maplabel package to l. Pass
// nil to silence them again, which is also the initial state. It may be
// called while frames run and layout workers are busy.
//
// Records carry a package prefix in the message ("font: ...",
// "placement: ...", "label: ...", "texture: ..."):
//   - [slog.LevelDebug]: placement frame counters, labels rejected behind
//     the camera, atlas flushes and resets, font registration
//   - [slog.LevelInfo]: GPU atlas texture creation
//   - [slog.LevelWarn]: unknown font names, undecodable font data, a full
//     atlas, failed atlas uploads
//
// A renderer that only wants to hear about a full atlas can run at Warn:
//
//	maplabel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelWarn,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
