package sites

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ojasmehta/yatra/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]types.HeritageSite, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]types.HeritageSite)
	return res, args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*types.HeritageSite, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*types.HeritageSite)
	return res, args.Error(1)
}

func TestList_CachesCatalog(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, slog.Default())

	catalog := []types.HeritageSite{
		{ID: uuid.New(), Name: "Taj Mahal", Country: "India"},
		{ID: uuid.New(), Name: "Petra", Country: "Jordan"},
	}
	repo.On("List", ctx).Return(catalog, nil).Once()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Second call must come from the cache.
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestGet_NotFoundNotCached(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, slog.Default())

	id := uuid.New()
	repo.On("Get", ctx, id).Return(nil, ErrNotFound).Twice()

	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Misses are not cached; the repo is asked again.
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertExpectations(t)
}
