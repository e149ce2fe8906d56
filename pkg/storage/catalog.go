package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/peakguard/peakguard/pkg/types"
)

// Catalog caches the archetype list of a Database. Reference data doesn't
// change while the process runs so it's loaded at most once.
type Catalog struct {
	db Database

	mu     sync.Mutex
	list   []types.BuildingArchetype
	byUse  map[string]types.BuildingArchetype
	loaded bool
}

// NewCatalog creates a Catalog over db.
func NewCatalog(db Database) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	list, err := c.db.ListArchetypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load archetypes: %w", err)
	}
	if len(list) == 0 {
		return errors.New("no building archetypes available")
	}
	c.list = list
	c.byUse = make(map[string]types.BuildingArchetype, len(list))
	for _, a := range list {
		c.byUse[a.Use] = a
	}
	c.loaded = true
	return nil
}

// List returns every archetype.
func (c *Catalog) List(ctx context.Context) ([]types.BuildingArchetype, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return append([]types.BuildingArchetype(nil), c.list...), nil
}

// Profile returns the archetype for use or an error wrapping
// ErrArchetypeNotFound.
func (c *Catalog) Profile(ctx context.Context, use string) (types.BuildingArchetype, error) {
	if err := c.load(ctx); err != nil {
		return types.BuildingArchetype{}, err
	}
	a, ok := c.byUse[use]
	if !ok {
		return types.BuildingArchetype{}, fmt.Errorf("%w: %s", ErrArchetypeNotFound, use)
	}
	return a, nil
}
