package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/owlcache/internal/adapters/logger"
	"go.trai.ch/owlcache/internal/core/ports"
)

// TraceEnv enables span logging when set to anything but "false" or "0".
const TraceEnv = "RUSTOWL_TRACE"

// TracerNodeID is the unique identifier for the telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			if !traceEnabled() {
				return NewNoOpTracer(), nil
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			Setup(log)
			return NewOTelTracer("owlcache"), nil
		},
	})
}

func traceEnabled() bool {
	v, ok := os.LookupEnv(TraceEnv)
	return ok && v != "" && v != "false" && v != "0"
}
