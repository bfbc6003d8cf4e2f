package observability

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the global zerolog logger for the directory service.
// Every line carries the service and environment so the API, the indexer and
// the seeder are distinguishable in aggregated output. Level comes from
// LOG_LEVEL, defaulting to debug in development and info elsewhere.
func InitLogger(serviceName, env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(logLevel(os.Getenv("LOG_LEVEL"), env))

	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()
}

func logLevel(raw, env string) zerolog.Level {
	if raw != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			return level
		}
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// LoggerFromContext returns the global logger enriched with the current
// trace and span ids, so a slow search can be chased from its log line into
// the trace backend.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.IsValid() {
		return &log.Logger
	}

	logger := log.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &logger
}
