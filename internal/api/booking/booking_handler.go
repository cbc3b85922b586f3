package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
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

// AddToCart handles POST /bookings/cart
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "AddToCart")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddToCartRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	var end *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		end = &parsed
	}

	b := &types.Booking{
		UserID:    userID,
		ItemType:  req.ItemType,
		ItemName:  req.ItemName,
		StartDate: start,
		EndDate:   end,
		Price:     req.Price,
	}

	saved, err := h.service.AddToCart(ctx, b)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to add cart item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Item added to cart")
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

// ListCart handles GET /bookings/cart
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "ListCart", h.service.ListCart)
}

// ListBooked handles GET /bookings
func (h *Handler) ListBooked(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "ListBooked", h.service.ListBooked)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), op)
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	bookings, err := fn(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list bookings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list bookings")
		return
	}

	span.SetStatus(codes.Ok, "Bookings returned")
	api.WriteJSONResponse(w, r, http.StatusOK, bookings)
}

// Confirm handles POST /bookings/{bookingID}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "Confirm")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	if err := h.service.Confirm(ctx, id, userID); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Booking not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to confirm booking", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to confirm booking")
		return
	}

	span.SetStatus(codes.Ok, "Booking confirmed")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Booking confirmed"})
}

// ConfirmAll handles POST /bookings/confirm
func (h *Handler) ConfirmAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "ConfirmAll")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	result, err := h.service.ConfirmAll(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if result != nil && len(result.Failed) > 0 {
			// Partial success: report what went through and what did not.
			span.SetStatus(codes.Error, "Partial confirmation")
			api.WriteJSONResponse(w, r, http.StatusMultiStatus, result)
			return
		}
		h.logger.ErrorContext(ctx, "Failed to confirm cart", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to confirm cart")
		return
	}

	span.SetStatus(codes.Ok, "Cart confirmed")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// RemoveFromCart handles DELETE /bookings/cart/{bookingID}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "RemoveFromCart")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	if err := h.service.RemoveFromCart(ctx, id, userID); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			// Also the answer for booked items: the cart predicate
			// leaves them untouched.
			api.ErrorResponse(w, r, http.StatusNotFound, "Cart item not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to remove cart item", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}

	span.SetStatus(codes.Ok, "Cart item removed")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// QRCode handles GET /bookings/{bookingID}/qr - returns a PNG
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "QRCode")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	png, err := h.service.QRCode(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Booking not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to render booking QR", slog.Any("error", err))
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	span.SetStatus(codes.Ok, "QR code returned")
	writePNG(w, r, h.logger, png)
}

// PreviewQRCode handles GET /bookings/qr/preview?item=... - a QR for
// an item that has not been booked yet
func (h *Handler) PreviewQRCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "PreviewQRCode")
	defer span.End()

	item := r.URL.Query().Get("item")
	if item == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "item query parameter is required")
		return
	}

	png, err := PreviewQRCodePNG(item)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to render preview QR", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "QR encoding failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	span.SetStatus(codes.Ok, "Preview QR returned")
	writePNG(w, r, h.logger, png)
}

func writePNG(w http.ResponseWriter, r *http.Request, logger *slog.Logger, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logger.ErrorContext(r.Context(), "Failed to write PNG response", slog.Any("error", err))
	}
}
