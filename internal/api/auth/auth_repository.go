package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/ojasmehta/yatra/internal/types"
)

// AuthRepo is the storage surface behind the auth service. Credential
// hashing lives here so the plaintext never leaves this package layer.
type AuthRepo interface {
	CreateUser(ctx context.Context, username, email, password string) (*types.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, username, email *string) (*types.UserAuth, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenOwner(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// Ensure implementation satisfies the interface
var _ AuthRepo = (*PostgresAuthRepo)(nil)

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

// CreateUser inserts a new user with a bcrypt-hashed password and the
// default "user" role.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, password string) (*types.UserAuth, error) {
	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("email", email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var user types.UserAuth
	err = tx.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, username, email, created_at, updated_at`,
		username, email, string(hashed),
	).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			l.WarnContext(ctx, "Email already registered")
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO user_roles (user_id, role) VALUES ($1, 'user')
        ON CONFLICT (user_id) DO NOTHING`, user.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to assign default role", slog.Any("error", err))
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.Role = "user"
	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	return &user, nil
}

// GetUserByEmail returns the user and the stored password hash.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, string, error) {
	var user types.UserAuth
	var hash string
	err := r.pgpool.QueryRow(ctx, `
        SELECT u.id, u.username, u.email, u.password_hash,
               COALESCE(ur.role, 'user'),
               u.created_at, u.updated_at
        FROM users u
        LEFT JOIN user_roles ur ON ur.user_id = u.id
        WHERE u.email = $1`, email,
	).Scan(&user.ID, &user.Username, &user.Email, &hash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to query user by email: %w", err)
	}
	return &user, hash, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx, `
        SELECT u.id, u.username, u.email,
               COALESCE(ur.role, 'user'),
               u.created_at, u.updated_at
        FROM users u
        LEFT JOIN user_roles ur ON ur.user_id = u.id
        WHERE u.id = $1`, userID,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the provided fields; nil fields keep their value.
func (r *PostgresAuthRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, username, email *string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx, `
        UPDATE users
        SET username = COALESCE($2, username),
            email = COALESCE($3, email),
            updated_at = NOW()
        WHERE id = $1
        RETURNING id, username, email, created_at, updated_at`,
		userID, username, email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("email already in use: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// UpdatePassword verifies the old password before storing the new hash.
func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	l := r.logger.With(slog.String("method", "UpdatePassword"), slog.String("user_id", userID.String()))

	var currentHash string
	err := r.pgpool.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE id = $1`, userID,
	).Scan(&currentHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to query password hash: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(oldPassword)); err != nil {
		l.WarnContext(ctx, "Old password mismatch")
		return fmt.Errorf("old password does not match: %w", ErrUnauthenticated)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, string(newHash))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	l.InfoContext(ctx, "Password updated")
	return nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO refresh_tokens (user_id, token, expires_at)
        VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// GetRefreshTokenOwner resolves a live (unexpired, unrevoked) refresh
// token to its user.
func (r *PostgresAuthRepo) GetRefreshTokenOwner(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pgpool.QueryRow(ctx, `
        SELECT user_id FROM refresh_tokens
        WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()`,
		token,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUnauthenticated
		}
		return uuid.Nil, fmt.Errorf("failed to query refresh token: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`,
		token)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to invalidate user refresh tokens: %w", err)
	}
	return nil
}
