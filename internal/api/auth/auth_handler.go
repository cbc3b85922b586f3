package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/ojasmehta/yatra/internal/api"
)

type AuthHandler struct {
	AuthService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		AuthService: authService,
	}
}

// Register handles POST /auth/register - creates a new user account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register")
	defer span.End()

	l := h.logger.With(slog.String("method", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid register payload", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.AuthService.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrConflict) {
			l.WarnContext(ctx, "Registration rejected", slog.Any("error", err))
			span.SetStatus(codes.Error, "Registration conflict")
			api.ErrorResponse(w, r, http.StatusConflict, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	span.SetStatus(codes.Ok, "User registered")
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login - exchanges credentials for a token pair
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()

	l := h.logger.With(slog.String("method", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	accessToken, refreshToken, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Invalid credentials")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		return
	}

	span.SetStatus(codes.Ok, "Login successful")
	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Message:      "Logged in successfully",
	})
}

// RefreshSession handles POST /auth/refresh - rotates the token pair
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "RefreshSession")
	defer span.End()

	var req RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RefreshToken == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "refresh_token is required")
		return
	}

	accessToken, refreshToken, err := h.AuthService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Invalid refresh token")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to refresh session", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	span.SetStatus(codes.Ok, "Session refreshed")
	api.WriteJSONResponse(w, r, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout handles POST /auth/logout - revokes the presented refresh token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Logout")
	defer span.End()

	var req LogoutRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.AuthService.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.ErrorContext(ctx, "Failed to log out", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log out")
		return
	}

	span.SetStatus(codes.Ok, "Logged out")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Logged out successfully"})
}

// ValidateSession handles GET /auth/validate - reports whether the
// presented access token still maps to a live account
func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "ValidateSession")
	defer span.End()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.WriteJSONResponse(w, r, http.StatusUnauthorized, ValidateSessionResponse{Valid: false})
		return
	}

	session, err := h.AuthService.ValidateSession(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			// Well-formed token whose account has been deleted.
			span.SetStatus(codes.Error, "Session user not found")
			api.WriteJSONResponse(w, r, http.StatusUnauthorized, ValidateSessionResponse{Valid: false})
			return
		}
		h.logger.ErrorContext(ctx, "Failed to validate session", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to validate session")
		return
	}

	span.SetStatus(codes.Ok, "Session valid")
	api.WriteJSONResponse(w, r, http.StatusOK, ValidateSessionResponse{
		Valid:    true,
		UserID:   session.ID,
		Username: session.Username,
		Email:    session.Email,
	})
}

// GetMe handles GET /auth/me - returns the authenticated user's profile
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "GetMe")
	defer span.End()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.AuthService.GetProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load profile", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	span.SetStatus(codes.Ok, "Profile returned")
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateProfile handles PUT /auth/me - updates username and/or email
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "UpdateProfile")
	defer span.End()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.AuthService.UpdateProfile(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
			span.SetStatus(codes.Error, "Service operation failed")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	span.SetStatus(codes.Ok, "Profile updated")
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdatePassword handles PUT /auth/password - verifies the old password
// and stores the new one
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "UpdatePassword")
	defer span.End()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.AuthService.UpdatePassword(ctx, userID, req.OldPassword, req.NewPassword)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrUnauthenticated):
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Old password does not match")
		case errors.Is(err, ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			h.logger.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
			span.SetStatus(codes.Error, "Service operation failed")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update password")
		}
		return
	}

	span.SetStatus(codes.Ok, "Password updated")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Password updated successfully"})
}
