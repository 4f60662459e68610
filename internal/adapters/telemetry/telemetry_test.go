package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/owlcache/internal/adapters/telemetry"
	"go.trai.ch/owlcache/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func TestOTelTracer_Start(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test-tracer")
	assert.NotNil(t, tracer)

	ctx := context.Background()
	_, span := tracer.Start(ctx, "test-span", ports.WithUnit("mycrate"))
	assert.NotNil(t, span)

	span.SetAttribute("unit", "mycrate")
	span.SetAttribute("entries", 3)
	span.SetAttribute("bytes", int64(1024))
	span.SetAttribute("hit_rate", 66.7)
	span.SetAttribute("enabled", true)
	span.SetAttribute("units", []string{"a", "b"})
	span.SetAttribute("other", struct{ X int }{1})

	span.RecordError(errors.New("save failed"))
	span.RecordError(nil)

	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	assert.NotNil(t, tracer)

	ctx := context.Background()
	_, span := tracer.Start(ctx, "test-span")
	assert.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))

	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}
