package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ojasmehta/yatra/internal/types"
)

// Service defines administrative operations. Role answers are cached
// briefly so the admin gate does not hit the database on every
// request.
type Service interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	ListAllBookings(ctx context.Context) ([]types.Booking, error)
	ToggleUserRole(ctx context.Context, userID uuid.UUID) (string, error)
	ListUsers(ctx context.Context) ([]UserWithRole, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger    *slog.Logger
	repo      Repository
	roleCache *cache.Cache
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		roleCache: cache.New(time.Minute, 5*time.Minute),
	}
}

func (s *ServiceImpl) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := roleCacheKey(userID)
	if cached, found := s.roleCache.Get(key); found {
		return cached.(bool), nil
	}

	isAdmin, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}

	s.roleCache.Set(key, isAdmin, cache.DefaultExpiration)
	return isAdmin, nil
}

func (s *ServiceImpl) ListAllBookings(ctx context.Context) ([]types.Booking, error) {
	return s.repo.ListAllBookings(ctx)
}

// ToggleUserRole flips a user between "user" and "admin" and returns
// the new role. The cached role answer is dropped immediately so a
// demotion takes effect within one request.
func (s *ServiceImpl) ToggleUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	current, err := s.repo.GetUserRole(ctx, userID)
	if err != nil {
		return "", err
	}

	next := "admin"
	if current == "admin" {
		next = "user"
	}

	if err := s.repo.SetUserRole(ctx, userID, next); err != nil {
		return "", err
	}

	s.roleCache.Delete(roleCacheKey(userID))
	s.logger.InfoContext(ctx, "User role toggled",
		slog.String("user_id", userID.String()),
		slog.String("from", current), slog.String("to", next))
	return next, nil
}

func (s *ServiceImpl) ListUsers(ctx context.Context) ([]UserWithRole, error) {
	return s.repo.ListUsers(ctx)
}

func roleCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("is_admin:%s", userID)
}
