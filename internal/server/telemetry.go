package server

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"ailetic/config"
	ttrace "ailetic/internal/telemetry/trace"
	traceExporter "ailetic/internal/telemetry/trace/exporter"
)

const exporterDialTimeout = 5 * time.Second

// InitGlobalProvider installs the global tracer provider. OTLP wins over
// Jaeger when both are configured; without an endpoint spans are dropped.
func (s *Server) InitGlobalProvider(name string, cfg *config.Config) {
	spanExporter, err := newSpanExporter(cfg.OTEL)
	if err != nil {
		log.Error().Err(err).Msgf("failed initializing the tracer exporter, tracing disabled")
	}

	tracerProvider, tracerProviderCloseFn, err := ttrace.NewTraceProviderBuilder(name).
		SetVersion(cfg.App.Version).
		SetExporter(spanExporter).
		Build()
	if err != nil {
		log.Fatal().Err(err).Msgf("failed initializing the tracer provider")
	}
	s.traceProviderCloseFn = append(s.traceProviderCloseFn, tracerProviderCloseFn)

	// set global propagator to tracecontext (the default is no-op).
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetTracerProvider(tracerProvider)
}

func newSpanExporter(cfg config.OTEL) (sdktrace.SpanExporter, error) {
	switch {
	case cfg.OTLPEndpoint != "":
		ctx, cancel := context.WithTimeout(context.Background(), exporterDialTimeout)
		defer cancel()
		exp, err := traceExporter.NewOTLP(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return nil, err
		}
		return exp, nil
	case cfg.JaegerEndpoint != "":
		exp, err := traceExporter.NewJaeger(cfg.JaegerEndpoint)
		if err != nil {
			return nil, err
		}
		return exp, nil
	default:
		return nil, nil
	}
}
