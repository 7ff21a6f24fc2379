package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OnboardingSurvey is the one-per-user intake survey. Submission replaces the
// whole document (upsert on user_id), so repeated submissions never duplicate.
type OnboardingSurvey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID string `bson:"user_id" json:"user_id"`

	DateOfBirth   string   `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender        string   `bson:"gender,omitempty" json:"gender,omitempty"`
	Country       string   `bson:"country,omitempty" json:"country,omitempty"`
	Languages     []string `bson:"languages,omitempty" json:"languages,omitempty"`
	Occupation    string   `bson:"occupation,omitempty" json:"occupation,omitempty"`
	MoodRating    int      `bson:"mood_rating,omitempty" json:"mood_rating,omitempty"`
	Goals         []string `bson:"goals,omitempty" json:"goals,omitempty"`
	SleepQuality  string   `bson:"sleep_quality,omitempty" json:"sleep_quality,omitempty"`
	StressLevel   string   `bson:"stress_level,omitempty" json:"stress_level,omitempty"`
	TherapyBefore bool     `bson:"therapy_before,omitempty" json:"therapy_before,omitempty"`
}
