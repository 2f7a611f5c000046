// Package log builds the process-wide slog.Logger and the raw frame logger.
//
// Console output is split: non-error levels go to stdout, errors to stderr,
// so shell redirection can separate them. Each console stream gets ANSI
// colors when it is a terminal and logfmt text otherwise. A log file, when
// configured, receives every enabled level as logfmt text.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LevelTrace sits below slog.LevelDebug for per-frame output that would
// drown debug logs at normal send rates.
const LevelTrace slog.Level = -8

// ParseLevel maps a config string to a slog level. Unknown strings and the
// empty string fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger builds a slog.Logger from the log config and installs it as the
// slog default. The returned closers own any opened log files; callers close
// them on exit.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)

	handlers := []slog.Handler{
		levelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: consoleHandler(os.Stdout, level)},
		levelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: consoleHandler(os.Stderr, slog.LevelError)},
	}

	var closers []io.Closer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	logger := slog.New(MultiHandler{handlers: handlers})
	slog.SetDefault(logger)
	return logger, closers, nil
}

// consoleHandler picks colored output when f is a terminal and logfmt text
// otherwise, so piped output stays machine readable.
func consoleHandler(f *os.File, level slog.Leveler) slog.Handler {
	if term.IsTerminal(int(f.Fd())) {
		return &colorHandler{w: f, level: level}
	}
	return slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
}

// MultiHandler fans out each record to all wrapped handlers.
type MultiHandler struct{ handlers []slog.Handler }

func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r)
		}
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return MultiHandler{handlers: out}
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithGroup(name)
	}
	return MultiHandler{handlers: out}
}

// levelFilter passes only records matching the predicate to the wrapped
// handler, so stdout and stderr can split by level.
type levelFilter struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (f levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.pass(level) && f.h.Enabled(ctx, level)
}

func (f levelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelFilter{pass: f.pass, h: f.h.WithAttrs(attrs)}
}

func (f levelFilter) WithGroup(name string) slog.Handler {
	return levelFilter{pass: f.pass, h: f.h.WithGroup(name)}
}

// colorHandler renders compact single-line records with ANSI colors. Attrs
// attached via With are qualified with their group path and printed before
// the record's own attrs.
type colorHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString("\033[90m")
	buf.WriteString(r.Time.Format("2006-01-02T15:04:05.000Z07:00"))
	buf.WriteString("\033[0m ")

	buf.WriteString(levelColor(r.Level))
	fmt.Fprintf(&buf, "%5s", levelName(r.Level))
	buf.WriteString("\033[0m ")

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		writeAttr(&buf, a)
		return true
	})

	buf.WriteString("\n")
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		merged = append(merged, a)
	}
	return &colorHandler{w: h.w, level: h.level, attrs: merged, group: h.group}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &colorHandler{w: h.w, level: h.level, attrs: h.attrs, group: group}
}

func writeAttr(buf *strings.Builder, a slog.Attr) {
	buf.WriteString(" ")
	buf.WriteString(a.Key)
	buf.WriteString("=")
	buf.WriteString(a.Value.String())
}

func levelName(l slog.Level) string {
	if l == LevelTrace {
		return "TRACE"
	}
	return l.String()
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "\033[31m"
	case l >= slog.LevelWarn:
		return "\033[33m"
	case l >= slog.LevelInfo:
		return "\033[32m"
	case l >= slog.LevelDebug:
		return "\033[34m"
	default:
		return "\033[35m"
	}
}
