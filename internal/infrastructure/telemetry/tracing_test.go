package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder installs a recording global provider for the duration of the test
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestStartServiceSpan(t *testing.T) {
	recorder := useRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "invoice", "create",
		SpanAttrCustomerID, int64(7),
		SpanAttrLineCount, 2,
		"ignored-without-value",
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	SetAttributes(span, SpanAttrInvoiceID, int64(42))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.create", spans[0].Name())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "7", attrs[SpanAttrCustomerID])
	assert.Equal(t, "2", attrs[SpanAttrLineCount])
	assert.Equal(t, "42", attrs[SpanAttrInvoiceID])
	assert.NotContains(t, attrs, "ignored-without-value")
}

func TestRecordError(t *testing.T) {
	recorder := useRecorder(t)

	_, span := StartServiceSpan(context.Background(), "invoice", "create")
	RecordError(span, nil)
	RecordError(span, errors.New("insufficient stock"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "insufficient stock", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.BOOL, toAttribute("k", true).Value.Type())
	assert.Equal(t, attribute.FLOAT64, toAttribute("k", 1.5).Value.Type())
	assert.Equal(t, "[1 2]", toAttribute("k", []int{1, 2}).Value.AsString())
}
