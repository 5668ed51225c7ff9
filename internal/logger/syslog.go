package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// syslogHandler renders records with a text handler and forwards each line
// to the system log at the priority matching the record level.
type syslogHandler struct {
	w     PriorityWriter
	mu    *sync.Mutex
	buf   *bytes.Buffer
	inner slog.Handler
}

func newSyslogHandler(w PriorityWriter) *syslogHandler {
	buf := new(bytes.Buffer)

	return &syslogHandler{
		w:   w,
		mu:  new(sync.Mutex),
		buf: buf,
		inner: slog.NewTextHandler(buf, &slog.HandlerOptions{
			// The system log stamps its own time.
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && a.Key == slog.TimeKey {
					return slog.Attr{}
				}

				return a
			},
		}),
	}
}

func (h *syslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *syslogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	line := strings.TrimSuffix(h.buf.String(), "\n")

	switch {
	case r.Level >= slog.LevelError:
		_ = h.w.Err(line)
	case r.Level >= slog.LevelWarn:
		_ = h.w.Warning(line)
	case r.Level >= slog.LevelInfo:
		_ = h.w.Info(line)
	default:
		_ = h.w.Debug(line)
	}

	return nil
}

func (h *syslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &syslogHandler{w: h.w, mu: h.mu, buf: h.buf, inner: h.inner.WithAttrs(attrs)}
}

func (h *syslogHandler) WithGroup(name string) slog.Handler {
	return &syslogHandler{w: h.w, mu: h.mu, buf: h.buf, inner: h.inner.WithGroup(name)}
}
