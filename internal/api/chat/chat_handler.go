package chat

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/ojasmehta/yatra/internal/api"
)

type ChatRequest struct {
	Prompt string `json:"prompt"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type ChatError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

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

// Ask handles POST /chat - relays a travel question to the assistant.
// The response body mirrors the upstream text verbatim; failure
// details go to the log, not the client.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "Ask")
	defer span.End()

	l := h.logger.With(slog.String("method", "Ask"))

	var req ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.WriteJSONResponse(w, r, http.StatusBadRequest, ChatError{Error: err.Error()})
		return
	}

	if req.Prompt == "" {
		span.SetStatus(codes.Error, "Missing prompt")
		api.WriteJSONResponse(w, r, http.StatusBadRequest, ChatError{Error: "prompt is required"})
		return
	}

	response, err := h.service.Ask(ctx, req.Prompt)
	if err != nil {
		l.ErrorContext(ctx, "Chat relay failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream failure")
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, ChatError{
			Error:   "failed to get travel advice",
			Details: "upstream assistant unavailable",
		})
		return
	}

	span.SetStatus(codes.Ok, "Advice returned")
	api.WriteJSONResponse(w, r, http.StatusOK, ChatResponse{Response: response})
}
