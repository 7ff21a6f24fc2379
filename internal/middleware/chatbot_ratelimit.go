package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mindhaven-app/mindhaven-backend/pkg/clientip"
)

// Chatbot message rate limit: per-IP token bucket, ~10 messages/min with a
// small burst. Keeps one user from burning the provider quota; the provider's
// own 429 is still surfaced to the caller when it happens.

const (
	chatbotRPS        = 0.17 // ~10/min
	chatbotBurst      = 5
	chatbotCleanupMin = 5 * time.Minute
	chatbotLimiterTTL = 30 * time.Minute
)

var (
	chatbotEntries   = make(map[string]*limiterEntry)
	chatbotEntriesMu sync.Mutex
	chatbotCleanup   bool
)

func getChatbotLimiter(ip string) *rate.Limiter {
	chatbotEntriesMu.Lock()
	defer chatbotEntriesMu.Unlock()
	startChatbotCleanupOnce()

	e, ok := chatbotEntries[ip]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(chatbotRPS), chatbotBurst),
			lastUse: time.Now(),
		}
		chatbotEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startChatbotCleanupOnce() {
	if chatbotCleanup {
		return
	}
	chatbotCleanup = true
	go func() {
		ticker := time.NewTicker(chatbotCleanupMin)
		defer ticker.Stop()
		for range ticker.C {
			chatbotEntriesMu.Lock()
			now := time.Now()
			for k, e := range chatbotEntries {
				if now.Sub(e.lastUse) > chatbotLimiterTTL {
					delete(chatbotEntries, k)
				}
			}
			chatbotEntriesMu.Unlock()
		}
	}()
}

// ChatbotRateLimit applies rate limiting only to POST /api/chatbot/message.
// Returns 429 with headers when exceeded.
func ChatbotRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/api/chatbot/message") {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		if !getChatbotLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(chatbotBurst))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many messages. Please slow down."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
