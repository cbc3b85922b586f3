package booking

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

var ErrNotFound = errors.New("booking not found")

// PGXPool is the slice of pgxpool.Pool the repository needs; tests
// substitute a mock pool.
type PGXPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the persistence surface for cart and booking records.
type Repository interface {
	AddToCart(ctx context.Context, b *types.Booking) (*types.Booking, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, status types.BookingStatus) ([]types.Booking, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*types.Booking, error)
	Confirm(ctx context.Context, id, userID uuid.UUID) (int64, error)
	RemoveFromCart(ctx context.Context, id, userID uuid.UUID) (int64, error)
	ListCartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
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

// AddToCart inserts a new record in the cart state.
func (r *PostgresRepository) AddToCart(ctx context.Context, b *types.Booking) (*types.Booking, error) {
	err := r.pgpool.QueryRow(ctx, `
        INSERT INTO bookings (user_id, item_type, item_name, start_date, end_date, price, status)
        VALUES ($1, $2, $3, $4, $5, $6, 'cart')
        RETURNING id, status, created_at`,
		b.UserID, b.ItemType, b.ItemName, b.StartDate, b.EndDate, b.Price,
	).Scan(&b.ID, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert cart item: %w", err)
	}

	r.logger.InfoContext(ctx, "Item added to cart",
		slog.String("booking_id", b.ID.String()),
		slog.String("item", b.ItemName))
	return b, nil
}

// ListByStatus returns the user's records in one lifecycle state,
// newest first.
func (r *PostgresRepository) ListByStatus(ctx context.Context, userID uuid.UUID, status types.BookingStatus) ([]types.Booking, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, user_id, item_type, item_name, start_date, end_date, price, status, created_at
        FROM bookings
        WHERE user_id = $1 AND status = $2
        ORDER BY created_at DESC`, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID uuid.UUID) (*types.Booking, error) {
	var b types.Booking
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, user_id, item_type, item_name, start_date, end_date, price, status, created_at
        FROM bookings
        WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&b.ID, &b.UserID, &b.ItemType, &b.ItemName, &b.StartDate, &b.EndDate, &b.Price, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return &b, nil
}

// Confirm flips the record to booked regardless of its current state
// and reports how many rows changed. Zero rows means the id did not
// exist for this user; callers decide whether that is an error.
func (r *PostgresRepository) Confirm(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE bookings SET status = 'booked' WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to confirm booking: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RemoveFromCart deletes a record only while it is still in the cart.
// A booked record is untouched and reports zero rows.
func (r *PostgresRepository) RemoveFromCart(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM bookings WHERE id = $1 AND user_id = $2 AND status = 'cart'`,
		id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListCartIDs returns the ids of the user's cart items, oldest first,
// for bulk confirmation.
func (r *PostgresRepository) ListCartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id FROM bookings
        WHERE user_id = $1 AND status = 'cart'
        ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cart id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart ids: %w", err)
	}
	return ids, nil
}

func scanBookings(rows pgx.Rows) ([]types.Booking, error) {
	bookings := make([]types.Booking, 0)
	for rows.Next() {
		var b types.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ItemType, &b.ItemName, &b.StartDate,
			&b.EndDate, &b.Price, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
