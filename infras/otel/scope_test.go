package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"seva/infras/otel"
	"seva/shared/failure"
)

func recordSpan(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	return ended[0]
}

func TestTraceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
	}{
		{name: "client failure keeps span ok", err: failure.Conflict("booking was changed"), wantStatus: codes.Unset},
		{name: "unexpected error fails span", err: errors.New("connection reset"), wantStatus: codes.Error},
		{name: "upstream failure fails span", err: failure.BadGateway("gateway timeout"), wantStatus: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := recordSpan(t, func(scope otel.Scope) {
				scope.TraceError(tt.err)
			})

			assert.Equal(t, tt.wantStatus, span.Status().Code)
			require.Len(t, span.Events(), 1)
			assert.Equal(t, "exception", span.Events()[0].Name)
		})
	}
}

func TestTraceIfErrorIgnoresNil(t *testing.T) {
	span := recordSpan(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
	})

	assert.Empty(t, span.Events())
	assert.Equal(t, codes.Unset, span.Status().Code)
}

func TestSetAttributes(t *testing.T) {
	span := recordSpan(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"booking.total": 1180.5,
			"booking.items": 2,
			"booking.paid":  true,
		})
	})

	values := map[string]any{}
	for _, kv := range span.Attributes() {
		values[string(kv.Key)] = kv.Value.AsInterface()
	}

	assert.Equal(t, 1180.5, values["booking.total"])
	assert.Equal(t, int64(2), values["booking.items"])
	assert.Equal(t, true, values["booking.paid"])
}
