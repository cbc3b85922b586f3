package sites

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/ojasmehta/yatra/internal/api"
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

// List handles GET /sites - the curated heritage site catalog
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SitesHandler").Start(r.Context(), "List")
	defer span.End()

	sites, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list heritage sites", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list heritage sites")
		return
	}

	span.SetStatus(codes.Ok, "Sites returned")
	api.WriteJSONResponse(w, r, http.StatusOK, sites)
}

// Get handles GET /sites/{siteID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SitesHandler").Start(r.Context(), "Get")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "siteID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid site ID")
		return
	}

	site, err := h.service.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Heritage site not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get heritage site", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get heritage site")
		return
	}

	span.SetStatus(codes.Ok, "Site returned")
	api.WriteJSONResponse(w, r, http.StatusOK, site)
}
