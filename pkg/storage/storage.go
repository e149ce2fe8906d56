// Package storage provides the building archetype reference data.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/peakguard/peakguard/pkg/types"
)

var (
	ErrArchetypeNotFound = errors.New("archetype not found")
	ErrReadOnly          = errors.New("storage is read-only")
)

// Database defines the interface for the building archetype reference data.
type Database interface {
	// ListArchetypes returns every archetype ordered by use.
	ListArchetypes(ctx context.Context) ([]types.BuildingArchetype, error)
	// GetArchetype returns the archetype for use or ErrArchetypeNotFound.
	GetArchetype(ctx context.Context, use string) (types.BuildingArchetype, error)
	// UpsertArchetype adds or replaces the archetype for a.Use.
	UpsertArchetype(ctx context.Context, a types.BuildingArchetype) error

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "file", "Storage provider to use (available: file, firestore)")

	var p struct{ Database }

	file := configuredFile()
	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "file":
			if err := file.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("archetype file init failed: %v", err))
			}
			p.Database = file
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}

func validateArchetype(a types.BuildingArchetype) error {
	if a.Use == "" {
		return errors.New("archetype use cannot be empty")
	}
	if a.TypicalAreaSqFt <= 0 {
		return fmt.Errorf("archetype %s has non-positive area %v", a.Use, a.TypicalAreaSqFt)
	}
	return nil
}
