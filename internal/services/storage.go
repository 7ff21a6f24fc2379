package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage stores uploaded files on local disk under a per-purpose
// directory. Files are served statically from /uploads/.
type LocalStorage struct {
	BaseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "profile-pictures"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{BaseDir: baseDir}, nil
}

// SaveProfilePicture writes the file under profile-pictures/ with a
// collision-resistant uuid name and returns the public /uploads/ path.
func (s *LocalStorage) SaveProfilePicture(file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	diskPath := filepath.Join(s.BaseDir, "profile-pictures", name)

	dst, err := os.Create(diskPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(diskPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/uploads/profile-pictures/" + name, nil
}

// Delete removes a previously stored file given its public /uploads/ path.
// Unknown or already-removed paths are not an error.
func (s *LocalStorage) Delete(publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, "/uploads/")
	if !ok {
		return nil
	}
	// Reject anything that escapes the base dir.
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return nil
	}
	err := os.Remove(filepath.Join(s.BaseDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsLocalUpload reports whether a stored picture path points at local storage
// (as opposed to a Cloudinary URL).
func IsLocalUpload(path string) bool {
	return strings.HasPrefix(path, "/uploads/")
}
