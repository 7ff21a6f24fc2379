package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

func useFakeChatbot(t *testing.T, status int, reply string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	SetChatbotService(services.NewChatbotService("test-key", "", srv.URL))
}

func TestChatbotMessage(t *testing.T) {
	useFakeChatbot(t, http.StatusOK, "That sounds hard. Want to try a short breathing exercise?")

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/message",
		strings.NewReader(`{"message":"rough day"}`))
	rec := httptest.NewRecorder()
	ChatbotMessage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "That sounds hard. Want to try a short breathing exercise?", resp.Response)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestChatbotMessageValidation(t *testing.T) {
	useFakeChatbot(t, http.StatusOK, "unused")

	for _, body := range []string{``, `{}`, `{"message":"   "}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/chatbot/message", strings.NewReader(body))
		rec := httptest.NewRecorder()
		ChatbotMessage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestChatbotMessageProviderRateLimited(t *testing.T) {
	useFakeChatbot(t, http.StatusTooManyRequests, "")

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/message",
		strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	ChatbotMessage(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestChatbotMessageProviderFailureIsOpaque(t *testing.T) {
	useFakeChatbot(t, http.StatusInternalServerError, "")

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/message",
		strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	ChatbotMessage(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Gemini")
	assert.NotContains(t, rec.Body.String(), "generativelanguage")
}

func TestChatbotHealth(t *testing.T) {
	SetChatbotService(services.NewChatbotService("test-key", "", ""))

	req := httptest.NewRequest(http.MethodGet, "/api/chatbot/health", nil)
	rec := httptest.NewRecorder()
	ChatbotHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"ready":true}`, rec.Body.String())

	SetChatbotService(services.NewChatbotService("", "", ""))
	rec = httptest.NewRecorder()
	ChatbotHealth(rec, req)
	assert.JSONEq(t, `{"success":true,"ready":false}`, rec.Body.String())
}
