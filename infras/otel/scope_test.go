package otel_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"todochain/infras/otel"
	"todochain/internal/domains/ledger/model"
	"todochain/shared/failure"
)

func record(t *testing.T, fn func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "span")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	return ended[0]
}

func attributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}

	return out
}

func TestScope_TraceErrorTagsFailureCodes(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
		scope.TraceError(failure.Wrap(failure.ItemNotFound, "%q", "Buy groceries"))
	})

	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := attributes(span)
	assert.Equal(t, int64(404), attrs["error.http_code"].AsInt64())
	assert.Equal(t, int64(failure.CodeItemNotFound), attrs["error.program_code"].AsInt64())
}

func TestScope_TraceErrorForeignError(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceError(errors.New("boom"))
	})

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.NotContains(t, attributes(span), attribute.Key("error.program_code"))
}

func TestScope_SetAttribute(t *testing.T) {
	key := model.DerivePubkey("account")

	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"slot":    uint64(7),
			"huge":    uint64(math.MaxUint64),
			"pubkey":  key,
			"data":    []byte{1, 2, 3},
			"enabled": true,
		})
	})

	attrs := attributes(span)
	assert.Equal(t, int64(7), attrs["slot"].AsInt64())
	assert.Equal(t, "18446744073709551615", attrs["huge"].AsString())
	assert.Equal(t, key.String(), attrs["pubkey"].AsString())
	assert.Equal(t, int64(3), attrs["data.len"].AsInt64())
	assert.True(t, attrs["enabled"].AsBool())
}
