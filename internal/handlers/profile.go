package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mindhaven-app/mindhaven-backend/internal/config"
	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

// MaxProfilePictureSize is 5 MB
const MaxProfilePictureSize = 5 << 20

var (
	cloudinaryService *services.CloudinaryService
	localStorage      *services.LocalStorage
)

// InitProfileStorage wires the picture storage backends. Cloudinary is used
// when credentials are configured, local disk otherwise.
func InitProfileStorage(cfg *config.Config) error {
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		service, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return err
		}
		cloudinaryService = service
	}

	storage, err := services.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return err
	}
	localStorage = storage
	return nil
}

// GetProfile returns the caller's editable display fields.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	user, err := services.GetUserByID(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": user.PublicFields(),
	})
}

// UpdateProfileRequest accepts display fields only. Email, password, id, and
// role are deliberately not decodable here; email changes have their own flow.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
	Theme    *string `json:"theme"`
}

// UpdateProfile applies the provided display fields to the caller's record.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" || len(name) > 100 {
			writeError(w, http.StatusBadRequest, "Full name must be 1-100 characters")
			return
		}
		*req.FullName = name
	}

	set := []string{"updated_at = NOW()"}
	args := []interface{}{userID}
	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}
	if req.FullName != nil {
		add("full_name", *req.FullName)
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.Theme != nil {
		add("theme", *req.Theme)
	}

	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id = $1"
	if _, err := database.PostgresDB.Exec(query, args...); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"profile": user.PublicFields(),
	})
}

// UploadProfilePicture stores a new picture and persists its path.
// Image MIME types only, 5 MB cap, multipart field name "profilePicture".
func UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	r.Body = http.MaxBytesReader(w, r.Body, MaxProfilePictureSize+1<<20)
	if err := r.ParseMultipartForm(MaxProfilePictureSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, fileHeader, err := r.FormFile("profilePicture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if fileHeader.Size > MaxProfilePictureSize {
		writeError(w, http.StatusBadRequest, "File must be at most 5 MB")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	var path string
	if cloudinaryService != nil {
		path, err = cloudinaryService.UploadProfilePicture(r.Context(), file)
	} else {
		path, err = localStorage.SaveProfilePicture(file, fileHeader.Filename)
	}
	if err != nil {
		log.Printf("ERROR: profile picture upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store profile picture")
		return
	}

	// Replace: remove the previous local file so uploads don't accumulate
	var oldPath string
	database.PostgresDB.QueryRow(`SELECT profile_picture FROM users WHERE id = $1`, userID).Scan(&oldPath)

	if _, err := database.PostgresDB.Exec(`
		UPDATE users SET profile_picture = $2, updated_at = NOW() WHERE id = $1
	`, userID, path); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile picture")
		return
	}

	if services.IsLocalUpload(oldPath) && oldPath != path {
		localStorage.Delete(oldPath)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         "Profile picture updated",
		"profile_picture": path,
	})
}

// DeleteProfilePicture clears the stored path and removes the backing file
// when it lives on local disk.
func DeleteProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var oldPath string
	database.PostgresDB.QueryRow(`SELECT profile_picture FROM users WHERE id = $1`, userID).Scan(&oldPath)

	if _, err := database.PostgresDB.Exec(`
		UPDATE users SET profile_picture = '', updated_at = NOW() WHERE id = $1
	`, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete profile picture")
		return
	}

	if services.IsLocalUpload(oldPath) {
		localStorage.Delete(oldPath)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile picture removed",
	})
}
