package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ojasmehta/yatra/config"
	"github.com/ojasmehta/yatra/internal/types"
)

// ProfileLocation is the static location shown on every user profile.
const ProfileLocation = "Chembur, Mumbai"

// AuthService defines session and account operations.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*types.UserAuth, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshSession(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateSession(ctx context.Context, userID uuid.UUID) (*types.Session, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl issues JWT access tokens and opaque rotating refresh
// tokens backed by the repository.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.UserAuth, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", ErrConflict)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", ErrConflict)
	}
	return s.repo.CreateUser(ctx, req.Username, req.Email, req.Password)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	user, hash, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Same answer for unknown email and bad password.
		l.WarnContext(ctx, "Login failed", slog.Any("error", err))
		return "", "", fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch")
		return "", "", fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}

	return s.issueTokens(ctx, user)
}

// RefreshSession rotates the refresh token: the presented token is
// revoked and a fresh pair is issued.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.repo.GetRefreshTokenOwner(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load user for refresh: %w", err)
	}

	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		return "", "", err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.InvalidateRefreshToken(ctx, refreshToken)
}

// ValidateSession confirms the token's subject still maps to a live
// account and returns the identity snapshot for it.
func (s *AuthServiceImpl) ValidateSession(ctx context.Context, userID uuid.UUID) (*types.Session, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &types.Session{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileFromUser(user), nil
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	if req.Username == nil && req.Email == nil {
		return nil, fmt.Errorf("no fields to update: %w", ErrConflict)
	}
	user, err := s.repo.UpdateProfile(ctx, userID, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	return profileFromUser(user), nil
}

func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrConflict)
	}
	if err := s.repo.UpdatePassword(ctx, userID, oldPassword, newPassword); err != nil {
		return err
	}
	// Force re-login everywhere after a password change.
	return s.repo.InvalidateAllUserRefreshTokens(ctx, userID)
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *types.UserAuth) (string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(s.jwtCfg.RefreshTTL)
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return "", "", err
	}

	s.logger.InfoContext(ctx, "Session issued", slog.String("user_id", user.ID.String()))
	return accessToken, refreshToken, nil
}

func (s *AuthServiceImpl) generateAccessToken(user *types.UserAuth) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func profileFromUser(user *types.UserAuth) *ProfileResponse {
	return &ProfileResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Location: ProfileLocation,
	}
}
