package admin

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

func (m *MockRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListAllBookings(ctx context.Context) ([]types.Booking, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]types.Booking)
	return res, args.Error(1)
}

func (m *MockRepository) SetUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockRepository) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]UserWithRole, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]UserWithRole)
	return res, args.Error(1)
}

func TestIsAdmin_CachesAnswer(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, slog.Default())

	userID := uuid.New()
	repo.On("IsAdmin", ctx, userID).Return(true, nil).Once()

	for i := 0; i < 3; i++ {
		isAdmin, err := svc.IsAdmin(ctx, userID)
		require.NoError(t, err)
		assert.True(t, isAdmin)
	}
	repo.AssertNumberOfCalls(t, "IsAdmin", 1)
}

func TestToggleUserRole_PromotesAndDemotes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, slog.Default())

	userID := uuid.New()

	repo.On("GetUserRole", ctx, userID).Return("user", nil).Once()
	repo.On("SetUserRole", ctx, userID, "admin").Return(nil).Once()

	role, err := svc.ToggleUserRole(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	repo.On("GetUserRole", ctx, userID).Return("admin", nil).Once()
	repo.On("SetUserRole", ctx, userID, "user").Return(nil).Once()

	role, err = svc.ToggleUserRole(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "user", role)
	repo.AssertExpectations(t)
}

func TestToggleUserRole_InvalidatesRoleCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, slog.Default())

	userID := uuid.New()

	// Prime the cache with an admin answer.
	repo.On("IsAdmin", ctx, userID).Return(true, nil).Once()
	isAdmin, err := svc.IsAdmin(ctx, userID)
	require.NoError(t, err)
	require.True(t, isAdmin)

	// Demote, then the next check must go back to the database.
	repo.On("GetUserRole", ctx, userID).Return("admin", nil).Once()
	repo.On("SetUserRole", ctx, userID, "user").Return(nil).Once()
	_, err = svc.ToggleUserRole(ctx, userID)
	require.NoError(t, err)

	repo.On("IsAdmin", ctx, userID).Return(false, nil).Once()
	isAdmin, err = svc.IsAdmin(ctx, userID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
	repo.AssertExpectations(t)
}
