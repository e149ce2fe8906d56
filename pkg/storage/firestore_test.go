package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/peakguard/peakguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocID(t *testing.T) {
	assert.Equal(t, "Office", docID("Office"))
	assert.Equal(t, "Lodging%2Fresidential", docID("Lodging/residential"))
	assert.Equal(t, "Entertainment%2Fpublic%20assembly", docID("Entertainment/public assembly"))

	// every shipped use must map to a single path segment
	db := NewFileProvider("../../data/archetypes.yaml")
	require.NoError(t, db.Init(context.Background()))
	list, err := db.ListArchetypes(context.Background())
	require.NoError(t, err)
	for _, a := range list {
		assert.NotContains(t, docID(a.Use), "/", a.Use)
	}
}

func TestFirestoreProvider(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: "test-project-id",
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	t.Run("Upsert And List", func(t *testing.T) {
		require.NoError(t, f.UpsertArchetype(ctx, types.BuildingArchetype{Use: "Office", TypicalAreaSqFt: 90000}))
		require.NoError(t, f.UpsertArchetype(ctx, types.BuildingArchetype{Use: "Education", TypicalAreaSqFt: 105000}))
		// replaces
		require.NoError(t, f.UpsertArchetype(ctx, types.BuildingArchetype{Use: "Office", TypicalAreaSqFt: 92000}))

		list, err := f.ListArchetypes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.BuildingArchetype{
			{Use: "Education", TypicalAreaSqFt: 105000},
			{Use: "Office", TypicalAreaSqFt: 92000},
		}, list)
	})

	t.Run("Get", func(t *testing.T) {
		a, err := f.GetArchetype(ctx, "Education")
		require.NoError(t, err)
		assert.Equal(t, 105000.0, a.TypicalAreaSqFt)

		_, err = f.GetArchetype(ctx, "Parking")
		assert.ErrorIs(t, err, ErrArchetypeNotFound)

		_, err = f.GetArchetype(ctx, "")
		assert.ErrorIs(t, err, ErrArchetypeNotFound)
	})

	t.Run("Use With Slash", func(t *testing.T) {
		lodging := types.BuildingArchetype{Use: "Lodging/residential", TypicalAreaSqFt: 110000}
		require.NoError(t, f.UpsertArchetype(ctx, lodging))

		got, err := f.GetArchetype(ctx, "Lodging/residential")
		require.NoError(t, err)
		assert.Equal(t, lodging, got)

		_, err = f.GetArchetype(ctx, "Lodging/other")
		assert.ErrorIs(t, err, ErrArchetypeNotFound)

		list, err := f.ListArchetypes(ctx)
		require.NoError(t, err)
		assert.Contains(t, list, lodging)
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.Error(t, f.UpsertArchetype(ctx, types.BuildingArchetype{Use: "Office"}))
		assert.Error(t, f.UpsertArchetype(ctx, types.BuildingArchetype{TypicalAreaSqFt: 10}))
	})
}
