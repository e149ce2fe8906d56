package storagemock

import (
	"context"

	"github.com/peakguard/peakguard/pkg/storage"
	"github.com/peakguard/peakguard/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) ListArchetypes(ctx context.Context) ([]types.BuildingArchetype, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BuildingArchetype), args.Error(1)
}

func (m *MockDatabase) GetArchetype(ctx context.Context, use string) (types.BuildingArchetype, error) {
	args := m.Called(ctx, use)
	return args.Get(0).(types.BuildingArchetype), args.Error(1)
}

func (m *MockDatabase) UpsertArchetype(ctx context.Context, a types.BuildingArchetype) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
