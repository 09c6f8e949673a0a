// Package boardstore provides the public entry point to the whiteboard
// store while keeping implementation details internal.
//
// Example:
//
//	reg, err := boardstore.NewRegistry(types.DefaultConfig("./server-data"))
//	if err != nil {
//	    return err
//	}
//	defer reg.Close()
//
//	b, err := reg.Open("anonymous")
//	b.Set("r1", types.Item{"type": "rect", "x": 10, "y": 20})
package boardstore

import (
	"github.com/mesh-intelligence/boardstore/internal/board"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// NewRegistry validates cfg, creates the history directory and returns a
// registry that loads boards from it on first access.
func NewRegistry(cfg types.Config) (types.BoardRegistry, error) {
	r, err := board.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return registry{r}, nil
}

type registry struct {
	r *board.Registry
}

func (r registry) Open(name string) (types.BoardStore, error) {
	s, err := r.r.Open(name)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r registry) Evict(name string) error { return r.r.Evict(name) }

func (r registry) Close() error { return r.r.Close() }
