package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracingExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := DefaultTracingConfig("strata-test", "0.0.0")
	cfg.Writer = &buf

	shutdown, err := InitTracing(context.Background(), cfg)
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "config.Load")
	span.SetAttribute("config.name", "application.yaml")
	span.SetAttribute("config.keys", 3)
	span.RecordError(errors.New("boom"))
	span.End()

	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "config.Load")
	assert.Contains(t, out, "application.yaml")
	assert.Contains(t, out, "boom")
}

func TestStartSpanWithoutProvider(t *testing.T) {
	_, span := StartSpan(context.Background(), "noop")
	span.SetAttribute("k", struct{}{})
	span.RecordError(nil)
	span.End()
}
