package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/ojasmehta/yatra/internal/api"
	"github.com/ojasmehta/yatra/internal/api/auth"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// RequireAdmin gates a route subtree behind the is_admin check. It
// runs after Authenticate, so the user id is already in context.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		isAdmin, err := h.service.IsAdmin(r.Context(), userID)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to check admin role", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to verify permissions")
			return
		}
		if !isAdmin {
			api.ErrorResponse(w, r, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ListAllBookings handles GET /admin/bookings - every user's bookings
func (h *Handler) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AdminHandler").Start(r.Context(), "ListAllBookings")
	defer span.End()

	bookings, err := h.service.ListAllBookings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list all bookings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list bookings")
		return
	}

	span.SetStatus(codes.Ok, "Bookings returned")
	api.WriteJSONResponse(w, r, http.StatusOK, bookings)
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AdminHandler").Start(r.Context(), "ListUsers")
	defer span.End()

	users, err := h.service.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list users")
		return
	}

	span.SetStatus(codes.Ok, "Users returned")
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// ToggleUserRole handles POST /admin/users/{userID}/role - flips a
// user between user and admin
func (h *Handler) ToggleUserRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AdminHandler").Start(r.Context(), "ToggleUserRole")
	defer span.End()

	targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	role, err := h.service.ToggleUserRole(ctx, targetID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to toggle user role", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to toggle user role")
		return
	}

	span.SetStatus(codes.Ok, "Role toggled")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"user_id": targetID.String(),
		"role":    role,
	})
}
