package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

var chatbotService *services.ChatbotService

// InitChatbot wires the generative-AI proxy from configuration.
func InitChatbot(cfg *config.Config) {
	chatbotService = services.NewChatbotService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiAPIURL)
}

// SetChatbotService swaps the proxy instance. Used by tests.
func SetChatbotService(s *services.ChatbotService) {
	chatbotService = s
}

type ChatMessageRequest struct {
	Message string `json:"message"`
}

type ChatMessageResponse struct {
	Success   bool      `json:"success"`
	Response  string    `json:"response,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatbotMessage forwards a user message to the AI provider and relays the
// reply. Provider failures never leak provider internals to the client.
func ChatbotMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	text, err := chatbotService.SendMessage(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChatbotNotConfigured):
			writeError(w, http.StatusInternalServerError, "Chat service is not configured")
		case errors.Is(err, services.ErrChatbotInvalidCredential):
			// Operator problem, not a user problem
			log.Printf("ERROR: AI provider rejected the configured API key")
			writeError(w, http.StatusInternalServerError, "Chat service is misconfigured. Please contact support.")
		case errors.Is(err, services.ErrChatbotRateLimited):
			writeError(w, http.StatusTooManyRequests, "The assistant is busy right now. Please try again in a moment.")
		default:
			writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, ChatMessageResponse{
		Success:   true,
		Response:  text,
		Timestamp: time.Now(),
	})
}

// ChatbotHealth reports whether a provider credential is configured.
// No live provider call is made.
func ChatbotHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ready":   chatbotService.Ready(),
	})
}
