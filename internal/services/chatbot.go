package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// System prompt sent with every chatbot message. The persona and the hard
// constraints (no diagnosis, defer to professionals) are product requirements.
const chatbotSystemPrompt = `You are Haven, a warm and empathetic mental-wellness companion.
You listen without judgment, validate feelings, and offer gentle, practical suggestions
for everyday wellbeing such as breathing exercises, journaling prompts, and sleep hygiene.

Hard rules you must always follow:
- You are not a therapist or doctor. Never diagnose a condition or give medical advice.
- If the user describes a crisis or mentions self-harm, encourage them to reach out to
  a mental-health professional or a local crisis line right away.
- Always recommend professional help for anything beyond everyday stress.
- Keep replies concise: a few short sentences, no long lectures.`

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Chatbot error kinds the handler maps to status codes.
var (
	ErrChatbotNotConfigured     = errors.New("chatbot: no API key configured")
	ErrChatbotInvalidCredential = errors.New("chatbot: provider rejected the API key")
	ErrChatbotRateLimited       = errors.New("chatbot: provider rate limit exceeded")
	ErrChatbotUnavailable       = errors.New("chatbot: provider unavailable")
)

// ChatbotService proxies user messages to the Gemini generateContent endpoint.
type ChatbotService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewChatbotService builds a chatbot proxy. baseURL overrides the public
// endpoint (used by tests); pass "" for the real one.
func NewChatbotService(apiKey, model, baseURL string) *ChatbotService {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &ChatbotService{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Ready reports whether a provider credential is configured. No live call.
func (s *ChatbotService) Ready() bool {
	return s != nil && s.apiKey != ""
}

// Gemini wire format (request)
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  geminiGenConfig  `json:"generationConfig"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Gemini wire format (response)
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// SendMessage forwards a user message wrapped in the fixed system prompt and
// returns the model's text reply. Provider failures map to the chatbot error
// kinds; anything unexpected degrades to ErrChatbotUnavailable so provider
// internals never reach users.
func (s *ChatbotService) SendMessage(ctx context.Context, message string) (string, error) {
	if !s.Ready() {
		return "", ErrChatbotNotConfigured
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: chatbotSystemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: message}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.7,
			MaxOutputTokens: 500,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", ErrChatbotUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", ErrChatbotUnavailable
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrChatbotInvalidCredential
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrChatbotRateLimited
	case resp.StatusCode != http.StatusOK:
		return "", ErrChatbotUnavailable
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", ErrChatbotUnavailable
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrChatbotUnavailable
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrChatbotUnavailable
	}
	return text, nil
}
