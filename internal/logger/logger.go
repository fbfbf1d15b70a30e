// Package logger builds the process logger and the adapters that route
// echo and GORM output through it.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"blogapi/internal/auth"
)

// New returns a zerolog logger writing to stdout. format "console" gives
// human readable output, anything else JSON lines.
func New(level, format string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// RequestLogger logs one line per handled request, tagged with the caller's
// user id once the bearer gate has accepted it.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		// Render errors before logging so the logged status is the one sent.
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			if id, ok := auth.UserIDFromContext(c.Request().Context()); ok {
				event = event.Uint("user_id", id)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// Gorm adapts log to GORM's logger interface. Slow queries are reported as
// warnings and missing records are not logged at all.
func Gorm(log zerolog.Logger) gormlogger.Interface {
	cfg := gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	}
	w := gormWriter{log: log.With().Str("component", "gorm").Logger(), level: zerolog.WarnLevel}
	if log.GetLevel() <= zerolog.DebugLevel {
		cfg.LogLevel = gormlogger.Info
		w.level = zerolog.DebugLevel
	}
	return gormlogger.New(w, cfg)
}

// gormWriter receives GORM's preformatted lines. GORM already filters by its
// own level, so every line is written at a single zerolog level.
type gormWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithLevel(w.level).Msgf(format, args...)
}
