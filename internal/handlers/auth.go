package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
	"github.com/mindhaven-app/mindhaven-backend/pkg/utils"
)

var jwtSecret []byte

// InitAuth wires the token-signing secret from configuration.
func InitAuth(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWTSecret)
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a signed token plus the public user fields.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Token   string                 `json:"token,omitempty"`
	User    map[string]interface{} `json:"user,omitempty"`
}

// Register handles user registration
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Validate required fields
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Full name, email, and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	// Check if user already exists
	var existingEmail string
	err := database.PostgresDB.QueryRow("SELECT email FROM users WHERE LOWER(email) = $1", req.Email).Scan(&existingEmail)
	if err == nil {
		writeError(w, http.StatusConflict, "An account with this email already exists")
		return
	} else if err != sql.ErrNoRows {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// Create user
	userID := uuid.New()
	now := time.Now()

	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, updated_at, full_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, now, now, req.FullName, req.Email, hashedPassword, models.RoleUser)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := services.CreateToken(userID.String(), models.RoleUser, jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	user := models.User{
		ID:        userID,
		CreatedAt: now,
		UpdatedAt: now,
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      models.RoleUser,
		Theme:     "light",
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		Token:   token,
		User:    user.PublicFields(),
	})
}

// Login handles user login. Unknown email and wrong password produce the same
// error shape so the endpoint cannot be used to enumerate accounts.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := findUserByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := services.CreateToken(user.ID.String(), user.Role, jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user.PublicFields(),
	})
}

func findUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, updated_at, full_name, email, password_hash, role,
			onboarding_completed, profile_picture, bio, theme
		FROM users WHERE LOWER(email) = $1
	`, email).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.FullName, &u.Email, &u.PasswordHash,
		&u.Role, &u.OnboardingCompleted, &u.ProfilePicture, &u.Bio, &u.Theme)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
