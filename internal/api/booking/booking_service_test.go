package booking

import (
	"context"
	"errors"
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

func (m *MockRepository) AddToCart(ctx context.Context, b *types.Booking) (*types.Booking, error) {
	args := m.Called(ctx, b)
	res, _ := args.Get(0).(*types.Booking)
	return res, args.Error(1)
}

func (m *MockRepository) ListByStatus(ctx context.Context, userID uuid.UUID, status types.BookingStatus) ([]types.Booking, error) {
	args := m.Called(ctx, userID, status)
	res, _ := args.Get(0).([]types.Booking)
	return res, args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id, userID uuid.UUID) (*types.Booking, error) {
	args := m.Called(ctx, id, userID)
	res, _ := args.Get(0).(*types.Booking)
	return res, args.Error(1)
}

func (m *MockRepository) Confirm(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) RemoveFromCart(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListCartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]uuid.UUID)
	return res, args.Error(1)
}

func TestConfirm_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	id, userID := uuid.New(), uuid.New()
	repo.On("Confirm", ctx, id, userID).Return(int64(0), nil)

	err := svc.Confirm(ctx, id, userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirm_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	id, userID := uuid.New(), uuid.New()
	repo.On("Confirm", ctx, id, userID).Return(int64(1), nil)

	require.NoError(t, svc.Confirm(ctx, id, userID))
}

func TestConfirmAll_AllSucceed(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	repo.On("ListCartIDs", ctx, userID).Return(ids, nil)
	for _, id := range ids {
		repo.On("Confirm", ctx, id, userID).Return(int64(1), nil)
	}

	result, err := svc.ConfirmAll(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Confirmed)
	assert.Empty(t, result.Failed)
}

func TestConfirmAll_PartialFailureNamesIDs(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	userID := uuid.New()
	good, bad := uuid.New(), uuid.New()
	repo.On("ListCartIDs", ctx, userID).Return([]uuid.UUID{good, bad}, nil)
	repo.On("Confirm", ctx, good, userID).Return(int64(1), nil)
	repo.On("Confirm", ctx, bad, userID).Return(int64(0), errors.New("connection reset"))

	result, err := svc.ConfirmAll(ctx, userID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad.String())
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, []uuid.UUID{bad}, result.Failed)
}

func TestConfirmAll_EmptyCart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	userID := uuid.New()
	repo.On("ListCartIDs", ctx, userID).Return([]uuid.UUID{}, nil)

	result, err := svc.ConfirmAll(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Confirmed)
}

func TestRemoveFromCart_BookedItemUntouched(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	id, userID := uuid.New(), uuid.New()
	// The status predicate means a booked row yields zero affected rows.
	repo.On("RemoveFromCart", ctx, id, userID).Return(int64(0), nil)

	err := svc.RemoveFromCart(ctx, id, userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCart_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	_, err := svc.AddToCart(ctx, &types.Booking{ItemName: ""})
	assert.Error(t, err)

	_, err = svc.AddToCart(ctx, &types.Booking{ItemName: "Taj Mahal tour", Price: -1})
	assert.Error(t, err)

	repo.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything)
}
