package sites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojasmehta/yatra/internal/types"
)

var ErrNotFound = errors.New("heritage site not found")

// Repository reads the curated heritage site catalog. The catalog is
// seeded by migrations and read-only at runtime.
type Repository interface {
	List(ctx context.Context) ([]types.HeritageSite, error)
	Get(ctx context.Context, id uuid.UUID) (*types.HeritageSite, error)
}

// Ensure implementation satisfies the interface
var _ Repository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresRepository) List(ctx context.Context) ([]types.HeritageSite, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, name, location, country, description, image_url, year_established, latitude, longitude
        FROM heritage_sites
        ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query heritage sites: %w", err)
	}
	defer rows.Close()

	sites := make([]types.HeritageSite, 0)
	for rows.Next() {
		var s types.HeritageSite
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.Country, &s.Description,
			&s.ImageURL, &s.YearEstablished, &s.Latitude, &s.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan heritage site: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heritage sites: %w", err)
	}
	return sites, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*types.HeritageSite, error) {
	var s types.HeritageSite
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, name, location, country, description, image_url, year_established, latitude, longitude
        FROM heritage_sites
        WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Location, &s.Country, &s.Description,
		&s.ImageURL, &s.YearEstablished, &s.Latitude, &s.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query heritage site: %w", err)
	}
	return &s, nil
}
