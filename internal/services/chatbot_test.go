package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGemini(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.RawQuery, "key=")

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": reply}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestSendMessage(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, "Take a slow breath in for four counts.")
	defer srv.Close()

	s := NewChatbotService("test-key", "", srv.URL)
	text, err := s.SendMessage(context.Background(), "I feel anxious today")
	require.NoError(t, err)
	assert.Equal(t, "Take a slow breath in for four counts.", text)
}

func TestSendMessageSendsSystemPrompt(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": "ok"}}}},
			},
		})
	}))
	defer srv.Close()

	s := NewChatbotService("test-key", "", srv.URL)
	_, err := s.SendMessage(context.Background(), "hello")
	require.NoError(t, err)

	require.NotNil(t, got.SystemInstruction)
	assert.Contains(t, got.SystemInstruction.Parts[0].Text, "Haven")
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
}

func TestSendMessageErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized maps to invalid credential", http.StatusUnauthorized, ErrChatbotInvalidCredential},
		{"forbidden maps to invalid credential", http.StatusForbidden, ErrChatbotInvalidCredential},
		{"429 maps to rate limited", http.StatusTooManyRequests, ErrChatbotRateLimited},
		{"500 maps to unavailable", http.StatusInternalServerError, ErrChatbotUnavailable},
		{"503 maps to unavailable", http.StatusServiceUnavailable, ErrChatbotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeGemini(t, tt.status, "")
			defer srv.Close()

			s := NewChatbotService("test-key", "", srv.URL)
			_, err := s.SendMessage(context.Background(), "hello")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSendMessageNotConfigured(t *testing.T) {
	s := NewChatbotService("", "", "")
	_, err := s.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrChatbotNotConfigured)
}

func TestSendMessageEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	s := NewChatbotService("test-key", "", srv.URL)
	_, err := s.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrChatbotUnavailable)
}

func TestReady(t *testing.T) {
	assert.True(t, NewChatbotService("key", "", "").Ready())
	assert.False(t, NewChatbotService("", "", "").Ready())

	var nilService *ChatbotService
	assert.False(t, nilService.Ready())
}
