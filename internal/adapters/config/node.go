package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/owlcache/internal/adapters/logger"
	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
)

const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[domain.Config]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (domain.Config, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return domain.Config{}, err
			}
			return NewLoader(log).Load(), nil
		},
	})
}
