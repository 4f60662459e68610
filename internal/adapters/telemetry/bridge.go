package telemetry

import (
	"context"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/owlcache/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor to forward span lifecycle
// events to the logger at debug level. The cache has no trace backend
// to export to; traces exist for humans reading the log.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{
		logger: logger,
	}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.logger == nil {
		return
	}

	if !s.SpanContext().IsValid() {
		return
	}

	b.logger.Debug(fmt.Sprintf("span %s started", s.Name()))
}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}

	if !s.SpanContext().IsValid() {
		return
	}

	b.logger.Debug(fmt.Sprintf("span %s finished in %s", s.Name(), s.EndTime().Sub(s.StartTime())))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(ctx context.Context) error {
	return nil
}
