package sites

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ojasmehta/yatra/internal/types"
)

const listCacheKey = "heritage_sites:all"

// Service serves the catalog through an in-process cache. The catalog
// only changes with a migration, so a long TTL is safe.
type Service interface {
	List(ctx context.Context) ([]types.HeritageSite, error)
	Get(ctx context.Context, id uuid.UUID) (*types.HeritageSite, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(30*time.Minute, 10*time.Minute),
	}
}

func (s *ServiceImpl) List(ctx context.Context) ([]types.HeritageSite, error) {
	if cached, found := s.cache.Get(listCacheKey); found {
		return cached.([]types.HeritageSite), nil
	}

	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(listCacheKey, sites, cache.DefaultExpiration)
	return sites, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (*types.HeritageSite, error) {
	key := "heritage_sites:" + id.String()
	if cached, found := s.cache.Get(key); found {
		return cached.(*types.HeritageSite), nil
	}

	site, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, site, cache.DefaultExpiration)
	return site, nil
}
