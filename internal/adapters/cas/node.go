package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/owlcache/internal/adapters/config"
	"go.trai.ch/owlcache/internal/adapters/logger"
	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
)

const NodeID graft.ID = "adapter.snapshot_store"

func init() {
	graft.Register(graft.Node[ports.SnapshotStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.SnapshotStore, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.Dir, log), nil
		},
	})
}
