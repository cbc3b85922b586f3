package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ojasmehta/yatra/internal/types"
)

var ErrNotFound = errors.New("itinerary not found")

// PGXPool is the slice of pgxpool.Pool the repository needs; tests
// substitute a mock pool.
type PGXPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the persistence surface for itineraries and their
// activities.
type Repository interface {
	Create(ctx context.Context, it *types.Itinerary) (*types.Itinerary, error)
	Update(ctx context.Context, it *types.Itinerary) (*types.Itinerary, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.Itinerary, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*types.Itinerary, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Ensure implementation satisfies the interface
var _ Repository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewPostgresRepository(pgxpool PGXPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

// Create inserts an itinerary and its activities in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, it *types.Itinerary) (*types.Itinerary, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
        INSERT INTO itineraries (user_id, destination, start_date, end_date, budget, group_size)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`,
		it.UserID, it.Destination, it.StartDate, it.EndDate, it.Budget, it.GroupSize,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}

	if err := insertActivities(ctx, tx, it.ID, it.Activities); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Itinerary created",
		slog.String("itinerary_id", it.ID.String()),
		slog.Int("activities", len(it.Activities)))
	return it, nil
}

// Update rewrites the itinerary header and replaces its full activity
// set. Both happen in a single transaction so a failed save never
// leaves a plan with half its activities.
func (r *PostgresRepository) Update(ctx context.Context, it *types.Itinerary) (*types.Itinerary, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
        UPDATE itineraries
        SET destination = $3, start_date = $4, end_date = $5, budget = $6,
            group_size = $7, updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING created_at, updated_at`,
		it.ID, it.UserID, it.Destination, it.StartDate, it.EndDate, it.Budget, it.GroupSize,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM activities WHERE itinerary_id = $1`, it.ID); err != nil {
		return nil, fmt.Errorf("failed to clear activities: %w", err)
	}

	if err := insertActivities(ctx, tx, it.ID, it.Activities); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Itinerary updated",
		slog.String("itinerary_id", it.ID.String()),
		slog.Int("activities", len(it.Activities)))
	return it, nil
}

func insertActivities(ctx context.Context, tx pgx.Tx, itineraryID uuid.UUID, activities []types.Activity) error {
	for i := range activities {
		a := &activities[i]
		a.ItineraryID = itineraryID
		err := tx.QueryRow(ctx, `
            INSERT INTO activities (itinerary_id, day, title, description, time, cost)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id`,
			itineraryID, a.Day, a.Title, a.Description, a.Time, a.Cost,
		).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("failed to insert activity %q: %w", a.Title, err)
		}
	}
	return nil
}

// List returns the user's itineraries, newest first, with activities
// eagerly loaded in (day, time) order.
func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID) ([]types.Itinerary, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, user_id, destination, start_date, end_date, budget, group_size, created_at, updated_at
        FROM itineraries
        WHERE user_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	itineraries := make([]types.Itinerary, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var it types.Itinerary
		if err := rows.Scan(&it.ID, &it.UserID, &it.Destination, &it.StartDate, &it.EndDate,
			&it.Budget, &it.GroupSize, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		it.Activities = []types.Activity{}
		index[it.ID] = len(itineraries)
		itineraries = append(itineraries, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate itineraries: %w", err)
	}

	if len(itineraries) == 0 {
		return itineraries, nil
	}

	actRows, err := r.pgpool.Query(ctx, `
        SELECT a.id, a.itinerary_id, a.day, a.title, a.description, a.time, a.cost
        FROM activities a
        JOIN itineraries i ON i.id = a.itinerary_id
        WHERE i.user_id = $1
        ORDER BY a.day, a.time`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer actRows.Close()

	for actRows.Next() {
		var a types.Activity
		if err := actRows.Scan(&a.ID, &a.ItineraryID, &a.Day, &a.Title, &a.Description, &a.Time, &a.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if i, ok := index[a.ItineraryID]; ok {
			itineraries[i].Activities = append(itineraries[i].Activities, a)
		}
	}
	if err := actRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return itineraries, nil
}

// Get returns one itinerary owned by userID, with activities ordered
// by (day, time).
func (r *PostgresRepository) Get(ctx context.Context, id, userID uuid.UUID) (*types.Itinerary, error) {
	var it types.Itinerary
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, user_id, destination, start_date, end_date, budget, group_size, created_at, updated_at
        FROM itineraries
        WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&it.ID, &it.UserID, &it.Destination, &it.StartDate, &it.EndDate,
		&it.Budget, &it.GroupSize, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query itinerary: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, `
        SELECT id, itinerary_id, day, title, description, time, cost
        FROM activities
        WHERE itinerary_id = $1
        ORDER BY day, time`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	it.Activities = []types.Activity{}
	for rows.Next() {
		var a types.Activity
		if err := rows.Scan(&a.ID, &a.ItineraryID, &a.Day, &a.Title, &a.Description, &a.Time, &a.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		it.Activities = append(it.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return &it, nil
}

// Delete removes an itinerary; activities go with it via ON DELETE
// CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.InfoContext(ctx, "Itinerary deleted", slog.String("itinerary_id", id.String()))
	return nil
}
