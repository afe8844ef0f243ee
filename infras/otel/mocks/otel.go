package mocks

import (
	"context"
	"seva/infras/otel"

	"go.opentelemetry.io/otel/propagation"
)

// otelImpl is a no-op tracer for tests.
type otelImpl struct{}

func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (o *otelImpl) Inject(_ context.Context, _ propagation.TextMapCarrier) {}

func (o *otelImpl) Extract(ctx context.Context, _ propagation.TextMapCarrier) context.Context {
	return ctx
}

func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}
