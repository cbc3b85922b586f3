package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ojasmehta/yatra/app/observability/metrics"
	"github.com/ojasmehta/yatra/internal/types"
)

// AddToCartRequest describes an item to place in the cart.
type AddToCartRequest struct {
	ItemType  string  `json:"item_type"`
	ItemName  string  `json:"item_name"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
	Price     float64 `json:"price"`
}

// ConfirmAllResult reports the outcome of a bulk confirmation.
type ConfirmAllResult struct {
	Confirmed int         `json:"confirmed"`
	Failed    []uuid.UUID `json:"failed,omitempty"`
}

// Service defines cart and booking lifecycle operations.
type Service interface {
	AddToCart(ctx context.Context, b *types.Booking) (*types.Booking, error)
	ListCart(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)
	ListBooked(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)
	Confirm(ctx context.Context, id, userID uuid.UUID) error
	ConfirmAll(ctx context.Context, userID uuid.UUID) (*ConfirmAllResult, error)
	RemoveFromCart(ctx context.Context, id, userID uuid.UUID) error
	QRCode(ctx context.Context, id, userID uuid.UUID) ([]byte, error)
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

func (s *ServiceImpl) AddToCart(ctx context.Context, b *types.Booking) (*types.Booking, error) {
	if b.ItemName == "" {
		return nil, fmt.Errorf("item_name is required")
	}
	if b.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	return s.repo.AddToCart(ctx, b)
}

func (s *ServiceImpl) ListCart(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	return s.repo.ListByStatus(ctx, userID, types.BookingStatusCart)
}

func (s *ServiceImpl) ListBooked(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	return s.repo.ListByStatus(ctx, userID, types.BookingStatusBooked)
}

// Confirm books a single record. A missing id surfaces as ErrNotFound;
// confirming an already-booked record is a harmless no-op flip.
func (s *ServiceImpl) Confirm(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := s.repo.Confirm(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if s.metrics != nil {
		s.metrics.BookingConfirmationsTotal.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "Booking confirmed", slog.String("booking_id", id.String()))
	return nil
}

// ConfirmAll books every cart item one by one. Items that fail are
// skipped rather than aborting the batch; the aggregate error names
// them so the client can retry.
func (s *ServiceImpl) ConfirmAll(ctx context.Context, userID uuid.UUID) (*ConfirmAllResult, error) {
	ids, err := s.repo.ListCartIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ConfirmAllResult{}
	for _, id := range ids {
		affected, err := s.repo.Confirm(ctx, id, userID)
		if err != nil || affected == 0 {
			if err != nil {
				s.logger.WarnContext(ctx, "Failed to confirm cart item",
					slog.String("booking_id", id.String()), slog.Any("error", err))
			}
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Confirmed++
		if s.metrics != nil {
			s.metrics.BookingConfirmationsTotal.Add(ctx, 1)
		}
	}

	if len(result.Failed) > 0 {
		failed := make([]string, len(result.Failed))
		for i, id := range result.Failed {
			failed[i] = id.String()
		}
		return result, fmt.Errorf("failed to confirm bookings: %s", strings.Join(failed, ", "))
	}
	return result, nil
}

// RemoveFromCart deletes a cart item. Booked records are protected by
// the status predicate and report ErrNotFound without being touched.
func (s *ServiceImpl) RemoveFromCart(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := s.repo.RemoveFromCart(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ServiceImpl) QRCode(ctx context.Context, id, userID uuid.UUID) ([]byte, error) {
	b, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return QRCodePNG(b)
}
