package session

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/owlcache/internal/adapters/cas"
	"go.trai.ch/owlcache/internal/adapters/config"
	"go.trai.ch/owlcache/internal/adapters/fs"
	"go.trai.ch/owlcache/internal/adapters/logger"
	"go.trai.ch/owlcache/internal/adapters/telemetry"
	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
)

// NodeID is the unique identifier for the session Graft node.
const NodeID graft.ID = "engine.session"

func init() {
	graft.Register(graft.Node[*Session]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cas.NodeID,
			fs.ValidatorNodeID,
			fs.HasherNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Session, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.SnapshotStore](ctx)
			if err != nil {
				return nil, err
			}
			validator, err := graft.Dep[ports.FileValidator](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg, store, validator, hasher, tracer, log), nil
		},
	})
}
