package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/handlers"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	// Public routes: registration, login, community feed, chatbot readiness
	r.Post("/api/auth/register", handlers.Register)
	r.Post("/api/auth/login", handlers.Login)
	r.Get("/api/journals/community", handlers.GetCommunityJournals)
	r.Get("/api/chatbot/health", handlers.ChatbotHealth)

	// Everything else requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth([]byte(cfg.JWTSecret)))

		// AI chat proxy
		r.Post("/api/chatbot/message", handlers.ChatbotMessage)

		// Journaling
		r.Post("/api/journals", handlers.CreateJournal)
		r.Get("/api/journals/my", handlers.GetMyJournals)
		r.Get("/api/journals/stats", handlers.GetJournalStats)
		r.Get("/api/journals/{id}", handlers.GetJournal)
		r.Put("/api/journals/{id}", handlers.UpdateJournal)
		r.Delete("/api/journals/{id}", handlers.DeleteJournal)
		r.Post("/api/journals/{id}/like", handlers.ToggleLike)
		r.Post("/api/journals/{id}/comments", handlers.AddComment)
		r.Delete("/api/journals/{id}/comments/{commentID}", handlers.DeleteComment)

		// Profile
		r.Get("/api/profile", handlers.GetProfile)
		r.Put("/api/profile", handlers.UpdateProfile)
		r.Post("/api/profile/upload-picture", handlers.UploadProfilePicture)
		r.Delete("/api/profile/picture", handlers.DeleteProfilePicture)

		// Onboarding
		r.Post("/api/user/onboarding", handlers.SubmitOnboarding)
		r.Get("/api/user/onboarding/me", handlers.GetMyOnboarding)
	})
}
