package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

type SubmitOnboardingRequest struct {
	DateOfBirth   string   `json:"date_of_birth"`
	Gender        string   `json:"gender"`
	Country       string   `json:"country"`
	Languages     []string `json:"languages"`
	Occupation    string   `json:"occupation"`
	MoodRating    int      `json:"mood_rating"`
	Goals         []string `json:"goals"`
	SleepQuality  string   `json:"sleep_quality"`
	StressLevel   string   `json:"stress_level"`
	TherapyBefore bool     `json:"therapy_before"`
}

// SubmitOnboarding stores the user's intake survey. Replace-upsert on user_id:
// repeated submission always leaves exactly one survey document per user.
func SubmitOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var req SubmitOnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	survey := models.OnboardingSurvey{
		CreatedAt:     now,
		UpdatedAt:     now,
		UserID:        userID,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		Country:       req.Country,
		Languages:     req.Languages,
		Occupation:    req.Occupation,
		MoodRating:    req.MoodRating,
		Goals:         req.Goals,
		SleepQuality:  req.SleepQuality,
		StressLevel:   req.StressLevel,
		TherapyBefore: req.TherapyBefore,
	}

	opts := options.Replace().SetUpsert(true)
	result, err := database.DB.Collection("onboarding_surveys").
		ReplaceOne(ctx, bson.M{"user_id": userID}, survey, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save survey")
		return
	}

	// Submission is the producer of the onboarding-completed flag.
	database.PostgresDB.Exec(`UPDATE users SET onboarding_completed = TRUE, updated_at = NOW() WHERE id = $1`, userID)

	status := http.StatusOK
	if result.UpsertedCount > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"message": "Onboarding survey saved",
	})
}

// GetMyOnboarding returns the caller's survey, 404 when none exists yet.
func GetMyOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var survey models.OnboardingSurvey
	err := database.DB.Collection("onboarding_surveys").
		FindOne(ctx, bson.M{"user_id": userID}).Decode(&survey)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "No onboarding survey found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load survey")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"survey":  survey,
	})
}
