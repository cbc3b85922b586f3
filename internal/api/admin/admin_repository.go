package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojasmehta/yatra/internal/types"
)

// UserWithRole is the admin view of an account.
type UserWithRole struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the storage surface for administrative operations.
type Repository interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	ListAllBookings(ctx context.Context) ([]types.Booking, error)
	SetUserRole(ctx context.Context, userID uuid.UUID, role string) error
	GetUserRole(ctx context.Context, userID uuid.UUID) (string, error)
	ListUsers(ctx context.Context) ([]UserWithRole, error)
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

// IsAdmin delegates to the is_admin SQL function so the check lives in
// one place for the API and any future database policies.
func (r *PostgresRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var isAdmin bool
	err := r.pgpool.QueryRow(ctx, `SELECT is_admin($1)`, userID).Scan(&isAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check admin role: %w", err)
	}
	return isAdmin, nil
}

// ListAllBookings returns every booking across all users, newest
// first.
func (r *PostgresRepository) ListAllBookings(ctx context.Context) ([]types.Booking, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, user_id, item_type, item_name, start_date, end_date, price, status, created_at
        FROM bookings
        ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

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

// SetUserRole upserts the role row; a user without a row counts as the
// plain "user" role.
func (r *PostgresRepository) SetUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO user_roles (user_id, role)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, role)
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	r.logger.InfoContext(ctx, "User role updated",
		slog.String("user_id", userID.String()), slog.String("role", role))
	return nil
}

func (r *PostgresRepository) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var role string
	err := r.pgpool.QueryRow(ctx, `
        SELECT COALESCE(
            (SELECT role FROM user_roles WHERE user_id = $1), 'user')`,
		userID).Scan(&role)
	if err != nil {
		return "", fmt.Errorf("failed to query user role: %w", err)
	}
	return role, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]UserWithRole, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT u.id, u.username, u.email, COALESCE(ur.role, 'user'), u.created_at
        FROM users u
        LEFT JOIN user_roles ur ON ur.user_id = u.id
        ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]UserWithRole, 0)
	for rows.Next() {
		var u UserWithRole
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
