package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func TestBuildTravelPrompt(t *testing.T) {
	prompt := BuildTravelPrompt("weekend in Jaipur under 20000")

	assert.Contains(t, prompt, "weekend in Jaipur under 20000")
	assert.Contains(t, prompt, "As a travel assistant")

	// The five response sections are part of the contract.
	for _, section := range []string{
		"1. Top Destinations",
		"2. Best Time to Visit",
		"3. Local Attractions",
		"4. Travel Tips",
		"5. Estimated Budget (in Indian Rupees)",
	} {
		assert.Contains(t, prompt, section)
	}
}

func TestAsk_ForwardsTemplatedPrompt(t *testing.T) {
	ctx := context.Background()
	ai := new(MockAIClient)
	svc := NewService(ai, nil, slog.Default())

	ai.On("GenerateContent", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "best beaches in Goa") && strings.Contains(p, "Top Destinations")
	}), mock.AnythingOfType("*genai.GenerateContentConfig")).Return("Goa advice", nil)

	response, err := svc.Ask(ctx, "best beaches in Goa")
	require.NoError(t, err)
	assert.Equal(t, "Goa advice", response)
	ai.AssertExpectations(t)
}

func TestAsk_UpstreamErrorPassthrough(t *testing.T) {
	ctx := context.Background()
	ai := new(MockAIClient)
	svc := NewService(ai, nil, slog.Default())

	ai.On("GenerateContent", ctx, mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	_, err := svc.Ask(ctx, "anything")
	assert.Error(t, err)
}

func TestHandlerAsk_MissingPrompt(t *testing.T) {
	handler := NewHandler(NewService(new(MockAIClient), nil, slog.Default()), slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":""}`))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "prompt is required")
}

func TestHandlerAsk_Success(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("Visit in October.", nil)
	handler := NewHandler(NewService(ai, nil, slog.Default()), slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"when to visit Petra"}`))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"Visit in October."}`, rec.Body.String())
}

func TestHandlerAsk_UpstreamFailureHidesDetails(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("api key invalid"))
	handler := NewHandler(NewService(ai, nil, slog.Default()), slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"hi"}`))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to get travel advice")
	assert.NotContains(t, rec.Body.String(), "api key invalid")
}
