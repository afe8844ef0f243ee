package otel

import (
	"context"
	"fmt"
	"seva/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc/credentials/insecure"
)

// Otel opens spans and carries trace context across process boundaries such as broker messages.
type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	Inject(ctx context.Context, carrier propagation.TextMapCarrier)
	Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context
	Shutdown(ctx context.Context) error
}

type otelImpl struct {
	provider   *trace.TracerProvider
	propagator propagation.TextMapPropagator
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

func (o *otelImpl) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	o.propagator.Inject(ctx, carrier)
}

func (o *otelImpl) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return o.propagator.Extract(ctx, carrier)
}

// Shutdown flushes buffered spans.
func (o *otelImpl) Shutdown(ctx context.Context) error {
	if err := o.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down tracer provider: %w", err)
	}

	return nil
}

// New builds the tracer provider. Without an exporter endpoint spans are sampled but never exported.
func New(config *config.Config) Otel {
	otelConfig := config.External.Otel

	options := []trace.TracerProviderOption{
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(otelConfig.SampleRatio))),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.App.Name),
			semconv.DeploymentEnvironmentKey.String(config.Server.Env),
		)),
	}

	if otelConfig.Endpoint != "" {
		exporter, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(otelConfig.Endpoint),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create OTLP exporter")
		}

		options = append(options, trace.WithBatcher(exporter))
	} else {
		log.Warn().Msg("OTEL endpoint is not set, traces will not be exported")
	}

	provider := trace.NewTracerProvider(options...)
	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagator)

	return &otelImpl{
		provider:   provider,
		propagator: propagator,
	}
}
