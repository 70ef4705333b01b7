// Package logger wraps zerolog.Logger with the constructors and
// context helpers used across seqnotes.
//
// Request-scoped loggers are attached to the context by the HTTP layer and
// recovered with FromContext; code without a request falls back to the
// default set with SetDefault, or to a disabled logger when none was set.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger struct {
	zerolog.Logger
}

// New builds a JSON logger writing to stdout, tagged with role and
// filtered at level. An unparsable level falls back to info.
func New(role, level string) *Logger {
	return NewWithWriter(os.Stdout, role, level)
}

func NewWithWriter(w io.Writer, role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()
	return &Logger{l}
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// SetDefault makes l the logger FromContext returns for contexts that
// carry none.
func SetDefault(l *Logger) {
	if l == nil {
		zerolog.DefaultContextLogger = nil
		return
	}
	zerolog.DefaultContextLogger = &l.Logger
}

// FromContext returns the logger stored in ctx, the default when none was
// attached, or a disabled logger when no default is set.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
