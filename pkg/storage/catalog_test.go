package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/peakguard/peakguard/pkg/storage"
	"github.com/peakguard/peakguard/pkg/storage/storagemock"
	"github.com/peakguard/peakguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads Once", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		db.On("ListArchetypes", mock.Anything).Return([]types.BuildingArchetype{
			{Use: "Office", TypicalAreaSqFt: 92000},
		}, nil).Once()

		c := storage.NewCatalog(db)
		list, err := c.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		a, err := c.Profile(ctx, "Office")
		require.NoError(t, err)
		assert.Equal(t, 92000.0, a.TypicalAreaSqFt)

		_, err = c.Profile(ctx, "Parking")
		assert.ErrorIs(t, err, storage.ErrArchetypeNotFound)

		db.AssertExpectations(t)
	})

	t.Run("Error Is Retried", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		db.On("ListArchetypes", mock.Anything).Return(nil, errors.New("unavailable")).Once()
		db.On("ListArchetypes", mock.Anything).Return([]types.BuildingArchetype{
			{Use: "Office", TypicalAreaSqFt: 92000},
		}, nil).Once()

		c := storage.NewCatalog(db)
		_, err := c.List(ctx)
		assert.Error(t, err)

		_, err = c.Profile(ctx, "Office")
		assert.NoError(t, err)
		db.AssertExpectations(t)
	})

	t.Run("Empty", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		db.On("ListArchetypes", mock.Anything).Return([]types.BuildingArchetype{}, nil)

		_, err := storage.NewCatalog(db).List(ctx)
		assert.ErrorContains(t, err, "no building archetypes")
	})
}
