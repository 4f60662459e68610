package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/owlcache/internal/core/ports"
)

const (
	ValidatorNodeID graft.ID = "adapter.fs.validator"
	HasherNodeID    graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.FileValidator]{
		ID:        ValidatorNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.FileValidator, error) {
			return NewValidator(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
