// Package observability wires the logging, metrics, and tracing stack used
// by every module: slog for structured logs, a prometheus registry exposed
// over /metrics, and an otel tracer for service spans.
package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "fantasy-frolf-bot"

// Observability bundles the shared observability components handed to
// module constructors.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Tracer   trace.Tracer
}

// Init builds the observability stack for the given environment. In
// development logs are human-readable text; everywhere else JSON.
func Init(environment string) *Observability {
	var handler slog.Handler
	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler).With(slog.String("service", serviceName))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:   logger,
		Registry: registry,
		Tracer:   otel.Tracer(serviceName),
	}
}

// NewNoOp returns a stack that discards everything; used in tests.
func NewNoOp() *Observability {
	return &Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
		Tracer:   tracenoop.NewTracerProvider().Tracer(serviceName),
	}
}
