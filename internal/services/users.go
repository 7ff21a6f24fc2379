package services

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
)

// GetUserByID loads a user row by id. Returns (nil, nil) when absent.
func GetUserByID(userID string) (*models.User, error) {
	var u models.User
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, updated_at, full_name, email, password_hash, role,
			onboarding_completed, profile_picture, bio, theme
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.FullName, &u.Email, &u.PasswordHash,
		&u.Role, &u.OnboardingCompleted, &u.ProfilePicture, &u.Bio, &u.Theme)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetAuthorInfo resolves display name and email for a set of author ids.
// Used to populate authors on community listings (one query per page).
func GetAuthorInfo(userIDs []string) (map[string]models.AuthorInfo, error) {
	out := make(map[string]models.AuthorInfo, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := database.PostgresDB.Query(`
		SELECT id, full_name, email FROM users WHERE id = ANY($1)
	`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var info models.AuthorInfo
		if err := rows.Scan(&info.ID, &info.FullName, &info.Email); err != nil {
			return nil, err
		}
		out[info.ID] = info
	}
	return out, rows.Err()
}
