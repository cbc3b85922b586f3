package itinerary

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

func (m *MockRepository) Create(ctx context.Context, it *types.Itinerary) (*types.Itinerary, error) {
	args := m.Called(ctx, it)
	res, _ := args.Get(0).(*types.Itinerary)
	return res, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, it *types.Itinerary) (*types.Itinerary, error) {
	args := m.Called(ctx, it)
	res, _ := args.Get(0).(*types.Itinerary)
	return res, args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID uuid.UUID) ([]types.Itinerary, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]types.Itinerary)
	return res, args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id, userID uuid.UUID) (*types.Itinerary, error) {
	args := m.Called(ctx, id, userID)
	res, _ := args.Get(0).(*types.Itinerary)
	return res, args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestGeneratePlan_ConvertsToINR(t *testing.T) {
	ctx := context.Background()
	svc := NewService(new(MockRepository), nil, slog.Default())
	userID := uuid.New()

	it, err := svc.GeneratePlan(ctx, userID, GenerateRequest{
		Destination: "Paris",
		StartDate:   date(2026, 6, 1),
		EndDate:     date(2026, 6, 4),
		Budget:      900,
		GroupSize:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, userID, it.UserID)
	// 900 USD * 83.13 = 74817 INR
	assert.Equal(t, 74817.0, it.Budget)
	require.Len(t, it.Activities, 5)
	// 300 USD primary slot -> 24939 INR
	assert.Equal(t, 24939.0, it.Activities[0].Cost)
	// 60 USD dinner -> 4988 INR (4987.8 rounded)
	assert.Equal(t, 4988.0, it.Activities[1].Cost)
}

func TestGeneratePlan_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(new(MockRepository), nil, slog.Default())

	_, err := svc.GeneratePlan(ctx, uuid.New(), GenerateRequest{
		Destination: "",
		StartDate:   date(2026, 6, 1),
		EndDate:     date(2026, 6, 2),
	})
	assert.Error(t, err)

	_, err = svc.GeneratePlan(ctx, uuid.New(), GenerateRequest{
		Destination: "Paris",
		StartDate:   date(2026, 6, 4),
		EndDate:     date(2026, 6, 1),
	})
	assert.Error(t, err)
}

func TestSave_NewItineraryCreates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	userID := uuid.New()
	it := &types.Itinerary{Destination: "Rome"}

	repo.On("Create", ctx, it).Return(it, nil)

	_, err := svc.Save(ctx, userID, it)
	require.NoError(t, err)
	assert.Equal(t, userID, it.UserID, "owner must come from the session, not the payload")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSave_ExistingItineraryReplaces(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	it := &types.Itinerary{ID: uuid.New(), Destination: "Rome"}
	repo.On("Update", ctx, it).Return(it, nil)

	_, err := svc.Save(ctx, uuid.New(), it)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSave_OwnershipOverridesPayload(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	sessionUser := uuid.New()
	it := &types.Itinerary{Destination: "Rome", UserID: uuid.New()}

	repo.On("Create", ctx, mock.MatchedBy(func(saved *types.Itinerary) bool {
		return saved.UserID == sessionUser
	})).Return(it, nil)

	_, err := svc.Save(ctx, sessionUser, it)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDelete_NotFoundPassthrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	id, userID := uuid.New(), uuid.New()
	repo.On("Delete", ctx, id, userID).Return(ErrNotFound)

	err := svc.Delete(ctx, id, userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportPDF_RendersStoredPlan(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	id, userID := uuid.New(), uuid.New()
	it := &types.Itinerary{
		ID:          id,
		UserID:      userID,
		Destination: "Petra",
		StartDate:   date(2026, 2, 1),
		EndDate:     date(2026, 2, 3),
		Budget:      50000,
		GroupSize:   2,
		Activities: []types.Activity{
			{Day: 1, Title: "Arrival & Check-in", Time: "14:00", Cost: 20000, Description: "Arrive at destination and check into accommodation"},
			{Day: 1, Title: "Dinner", Time: "19:00", Cost: 4000, Description: "Enjoy local cuisine"},
		},
	}
	repo.On("Get", ctx, id, userID).Return(it, nil)

	pdfBytes, err := svc.ExportPDF(ctx, id, userID)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestExportPDF_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())

	id, userID := uuid.New(), uuid.New()
	repo.On("Get", ctx, id, userID).Return(nil, ErrNotFound)

	_, err := svc.ExportPDF(ctx, id, userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateThenSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, slog.Default())
	userID := uuid.New()

	it, err := svc.GeneratePlan(ctx, userID, GenerateRequest{
		Destination: "Kyoto",
		StartDate:   date(2026, 4, 1),
		EndDate:     date(2026, 4, 5),
		Budget:      1200,
		GroupSize:   2,
	})
	require.NoError(t, err)

	repo.On("Create", ctx, it).Return(it, nil)
	saved, err := svc.Save(ctx, userID, it)
	require.NoError(t, err)

	// Save must not reshape what the generator produced.
	assert.Equal(t, it.Activities, saved.Activities)
	assert.Equal(t, "Kyoto", saved.Destination)
}
