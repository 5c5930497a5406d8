// Package logx builds the tool's slog.Logger: every record goes to the
// system log, and records at or above the console level also go to the
// operator's terminal.
package logx

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Options selects the sinks.
type Options struct {
	// Console receives human-facing records (normally os.Stderr).
	Console io.Writer
	// Verbose lowers the console threshold from Warn to Info.
	Verbose bool
	// Journal receives every record (normally a syslog writer). Nil disables it.
	Journal io.Writer
}

// New returns a logger fanning out to the configured sinks.
func New(o Options) *slog.Logger {
	var hs []slog.Handler
	if o.Console != nil {
		lvl := slog.LevelWarn
		if o.Verbose {
			lvl = slog.LevelInfo
		}
		hs = append(hs, slog.NewTextHandler(o.Console, &slog.HandlerOptions{
			Level:       lvl,
			ReplaceAttr: dropTime,
		}))
	}
	if o.Journal != nil {
		hs = append(hs, slog.NewTextHandler(o.Journal, &slog.HandlerOptions{
			Level:       slog.LevelDebug,
			ReplaceAttr: dropTime,
		}))
	}
	if len(hs) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(hs) == 1 {
		return slog.New(hs[0])
	}
	return slog.New(fanout(hs))
}

// The syslog daemon and the terminal both supply their own timestamps.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
