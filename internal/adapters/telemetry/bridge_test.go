package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/owlcache/internal/adapters/telemetry"
	"go.trai.ch/owlcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogBridge_ForwardsSpanLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).Times(2)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewLogBridge(log)),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "save-unit")
	span.End()
}

func TestLogBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewLogBridge(nil)),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	require.NotPanics(t, func() {
		_, span := tp.Tracer("test").Start(context.Background(), "save-unit")
		span.End()
	})
}
