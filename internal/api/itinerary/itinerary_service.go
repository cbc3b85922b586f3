package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ojasmehta/yatra/app/observability/metrics"
	"github.com/ojasmehta/yatra/internal/api/currency"
	"github.com/ojasmehta/yatra/internal/types"
)

// GenerateRequest describes the trip to plan. Budget is in USD; the
// generated plan comes back priced in INR.
type GenerateRequest struct {
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Budget      float64   `json:"budget"`
	GroupSize   int       `json:"group_size"`
}

// Service defines itinerary planning and persistence operations.
type Service interface {
	GeneratePlan(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*types.Itinerary, error)
	Save(ctx context.Context, userID uuid.UUID, it *types.Itinerary) (*types.Itinerary, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.Itinerary, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*types.Itinerary, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ExportPDF(ctx context.Context, id, userID uuid.UUID) ([]byte, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	metrics *metrics.AppMetrics
}

func NewService(repo Repository, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		metrics: appMetrics,
	}
}

// GeneratePlan builds the deterministic day plan and converts budget
// and costs to INR. Nothing is persisted until the client saves.
func (s *ServiceImpl) GeneratePlan(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*types.Itinerary, error) {
	if req.Destination == "" {
		return nil, fmt.Errorf("destination is required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("end date must not be before start date")
	}
	if req.Budget < 0 {
		return nil, fmt.Errorf("budget must not be negative")
	}

	activities := Generate(req.Destination, req.StartDate, req.EndDate, req.Budget, req.GroupSize)
	for i := range activities {
		activities[i].Cost = currency.ConvertUSDToINR(activities[i].Cost)
	}

	groupSize := req.GroupSize
	if groupSize < 1 {
		groupSize = 1
	}

	it := &types.Itinerary{
		UserID:      userID,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      currency.ConvertUSDToINR(req.Budget),
		GroupSize:   groupSize,
		Activities:  activities,
	}

	if s.metrics != nil {
		s.metrics.ItinerariesGeneratedTotal.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "Itinerary generated",
		slog.String("destination", req.Destination),
		slog.Int("activities", len(activities)))
	return it, nil
}

// Save creates the itinerary when it has no id, otherwise replaces the
// stored plan wholesale. Last write wins on concurrent saves.
func (s *ServiceImpl) Save(ctx context.Context, userID uuid.UUID, it *types.Itinerary) (*types.Itinerary, error) {
	it.UserID = userID

	var saved *types.Itinerary
	var err error
	if it.ID == uuid.Nil {
		saved, err = s.repo.Create(ctx, it)
	} else {
		saved, err = s.repo.Update(ctx, it)
	}
	if err != nil {
		s.countDBError(ctx, err)
		return nil, err
	}
	return saved, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]types.Itinerary, error) {
	itineraries, err := s.repo.List(ctx, userID)
	if err != nil {
		s.countDBError(ctx, err)
		return nil, err
	}
	return itineraries, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*types.Itinerary, error) {
	it, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		s.countDBError(ctx, err)
		return nil, err
	}
	return it, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		s.countDBError(ctx, err)
		return err
	}
	return nil
}

// ExportPDF renders the stored plan as an A4 document.
func (s *ServiceImpl) ExportPDF(ctx context.Context, id, userID uuid.UUID) ([]byte, error) {
	it, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		s.countDBError(ctx, err)
		return nil, err
	}
	return RenderPDF(it)
}

func (s *ServiceImpl) countDBError(ctx context.Context, err error) {
	if err == nil || errors.Is(err, ErrNotFound) || s.metrics == nil {
		return
	}
	s.metrics.DbQueryErrorsTotal.Add(ctx, 1)
}
