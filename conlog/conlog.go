// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog sets up the process wide slog logger and the printf style
// console used by probe scripts.
package conlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json, console
	Output io.Writer
}

var (
	mu sync.Mutex
	lg *slog.Logger
	p  func(string, ...interface{})
)

// Init installs the logger described by cfg as the slog default.
func Init(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(cfg.Output, opts)
	case "text":
		h = slog.NewTextHandler(cfg.Output, opts)
	default:
		h = &consoleHandler{w: cfg.Output, level: opts.Level.Level()}
	}
	l := slog.New(h)
	mu.Lock()
	lg = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// L returns the logger set up by Init, or the slog default.
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if lg == nil {
		return slog.Default()
	}
	return lg
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func SetPrintf(f func(string, ...interface{})) {
	mu.Lock()
	p = f
	mu.Unlock()
}

// Printf writes probe output. Without SetPrintf it goes to stdout.
func Printf(format string, v ...interface{}) {
	mu.Lock()
	f := p
	mu.Unlock()
	if f == nil {
		fmt.Printf(format, v...)
		return
	}
	f(format, v...)
}

// consoleHandler writes "15:04:05 INFO  message  key=value" lines.
type consoleHandler struct {
	mu    sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
	group string
}

func (h *consoleHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(b, "  %s=%v", key, a.Value)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     h.w,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
		group: h.group,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if h.group != "" {
		name = h.group + "." + name
	}
	return &consoleHandler{
		w:     h.w,
		level: h.level,
		attrs: append([]slog.Attr{}, h.attrs...),
		group: name,
	}
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	}
	return "DEBUG"
}
