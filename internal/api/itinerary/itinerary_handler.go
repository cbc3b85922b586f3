package itinerary

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ojasmehta/yatra/internal/api"
	"github.com/ojasmehta/yatra/internal/api/auth"
	"github.com/ojasmehta/yatra/internal/types"
)

const dateLayout = "2006-01-02"

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

// generatePayload is the wire form of GenerateRequest; dates come in
// as YYYY-MM-DD.
type generatePayload struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      float64 `json:"budget"`
	GroupSize   int     `json:"group_size"`
}

// Generate handles POST /itineraries/generate - builds an unsaved plan
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate")
	defer span.End()

	l := h.logger.With(slog.String("method", "Generate"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload generatePayload
	if err := api.DecodeJSONBody(w, r, &payload); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse(dateLayout, payload.StartDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("start_date must be %s", dateLayout))
		return
	}
	end, err := time.Parse(dateLayout, payload.EndDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("end_date must be %s", dateLayout))
		return
	}
	if end.Before(start) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	span.SetAttributes(attribute.String("trip.destination", payload.Destination))

	it, err := h.service.GeneratePlan(ctx, userID, GenerateRequest{
		Destination: payload.Destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      payload.Budget,
		GroupSize:   payload.GroupSize,
	})
	if err != nil {
		l.WarnContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// Save handles POST /itineraries - creates or replaces a plan
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Save")
	defer span.End()

	l := h.logger.With(slog.String("method", "Save"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var it types.Itinerary
	if err := api.DecodeJSONBody(w, r, &it); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if it.Destination == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "destination is required")
		return
	}
	if it.EndDate.Before(it.StartDate) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}
	if it.GroupSize < 1 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "group_size must be at least 1")
		return
	}

	isNew := it.ID == uuid.Nil

	saved, err := h.service.Save(ctx, userID, &it)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save itinerary")
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	span.SetStatus(codes.Ok, "Itinerary saved")
	api.WriteJSONResponse(w, r, status, saved)
}

// List handles GET /itineraries - the caller's saved plans
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "List")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itineraries, err := h.service.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list itineraries")
		return
	}

	span.SetStatus(codes.Ok, "Itineraries returned")
	api.WriteJSONResponse(w, r, http.StatusOK, itineraries)
}

// Get handles GET /itineraries/{itineraryID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Get")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}

	it, err := h.service.Get(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get itinerary", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get itinerary")
		return
	}

	span.SetStatus(codes.Ok, "Itinerary returned")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// Delete handles DELETE /itineraries/{itineraryID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Delete")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}

	if err := h.service.Delete(ctx, id, userID); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete itinerary", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete itinerary")
		return
	}

	span.SetStatus(codes.Ok, "Itinerary deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// ExportPDF handles GET /itineraries/{itineraryID}/pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ExportPDF")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}

	pdfBytes, err := h.service.ExportPDF(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to export itinerary PDF", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to export itinerary")
		return
	}

	span.SetStatus(codes.Ok, "PDF exported")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "itinerary-"+id.String()+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.ErrorContext(ctx, "Failed to write PDF response", slog.Any("error", err))
	}
}
