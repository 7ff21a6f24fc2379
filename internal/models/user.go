package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleUser      = "user"
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

// User is a row in the PostgreSQL users table.
type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Don't return password hash in JSON
	Role         string `json:"role"`

	OnboardingCompleted bool   `json:"onboarding_completed"`
	ProfilePicture      string `json:"profile_picture,omitempty"`
	Bio                 string `json:"bio,omitempty"`
	Theme               string `json:"theme,omitempty"`
}

// PublicFields returns the user representation safe to send to clients.
func (u *User) PublicFields() map[string]interface{} {
	return map[string]interface{}{
		"id":                   u.ID.String(),
		"full_name":            u.FullName,
		"email":                u.Email,
		"role":                 u.Role,
		"onboarding_completed": u.OnboardingCompleted,
		"profile_picture":      u.ProfilePicture,
		"bio":                  u.Bio,
		"theme":                u.Theme,
		"created_at":           u.CreatedAt,
	}
}
