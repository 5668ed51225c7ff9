// Package logger provides the diagnostic log used by mempig.
//
// A [Logger] writes one line per record, either to a stream (standard error
// by default) or to the system log. The mode can be switched at any time with
// [Logger.UseSyslog]; a daemonized process does so before it loses its
// standard streams. Logging is best-effort: sink failures are dropped.
package logger

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Tag identifies mempig's messages in the system log.
const Tag = "mempig"

// PriorityWriter is the subset of [log/syslog.Writer] the syslog sink uses.
type PriorityWriter interface {
	Err(m string) error
	Warning(m string) error
	Info(m string) error
	Debug(m string) error
}

// Dialer opens a connection to the system log.
type Dialer func() (PriorityWriter, error)

type Option func(*Logger)

// WithDialer replaces the function used to connect to the system log.
func WithDialer(dial Dialer) Option {
	return func(l *Logger) {
		l.dial = dial
	}
}

type Logger struct {
	mu        sync.Mutex
	stream    *slog.Logger
	syslog    *slog.Logger
	useSyslog bool
	dial      Dialer
}

// New returns a logger in stream mode writing to w.
func New(w io.Writer, opts ...Option) *Logger {
	l := &Logger{
		stream: slog.New(slog.NewTextHandler(w, nil)),
		dial:   dialSyslog,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// UseSyslog switches between the system log and the stream. If the system
// log cannot be reached, the logger silently stays on the stream.
func (l *Logger) UseSyslog(use bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if use && l.syslog == nil {
		w, err := l.dial()
		if err != nil {
			return
		}

		l.syslog = slog.New(newSyslogHandler(w))
	}

	l.useSyslog = use
}

// UsingSyslog reports whether records currently go to the system log. A
// failed dial leaves it false, which lets callers detect that the switch did
// not happen.
func (l *Logger) UsingSyslog() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.useSyslog
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	target := l.stream
	if l.useSyslog {
		target = l.syslog
	}

	target.Log(context.Background(), level, msg, args...)
}
