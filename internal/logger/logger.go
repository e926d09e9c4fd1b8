// Package logger wraps a process-wide zerolog logger and carries
// request-scoped loggers through context.
package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type loggerKey struct{}

var globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
}

// Init configures the global logger. An unknown level falls back to info.
// Pretty switches to zerolog's console writer for local runs.
func Init(level string, pretty bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(w).With().Timestamp().Caller().Logger().Level(lvl)
	if err != nil {
		l.Warn().Str("level", level).Msg("invalid log level, defaulting to info")
	}

	globalLogger = l
	log.Logger = l
	return l
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &globalLogger
}

// Ctx returns the logger stored in ctx, or the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return &globalLogger
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// SetLevel updates the global log level
func SetLevel(level zerolog.Level) {
	globalLogger = globalLogger.Level(level)
	log.Logger = globalLogger
}

func Fatal() *zerolog.Event { return globalLogger.Fatal() }

func Error() *zerolog.Event { return globalLogger.Error() }

func Warn() *zerolog.Event { return globalLogger.Warn() }

func Info() *zerolog.Event { return globalLogger.Info() }

func Debug() *zerolog.Event { return globalLogger.Debug() }
