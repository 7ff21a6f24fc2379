package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func newMemoryFile(content string) multipart.File {
	return memoryFile{bytes.NewReader([]byte(content))}
}

func TestSaveAndDeleteProfilePicture(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := storage.SaveProfilePicture(newMemoryFile("fake image bytes"), "avatar.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/profile-pictures/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	rel := strings.TrimPrefix(path, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, storage.Delete(path))
	_, err = os.Stat(filepath.Join(dir, rel))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveProfilePictureDefaultsExtension(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := storage.SaveProfilePicture(newMemoryFile("x"), "no-extension")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))
}

func TestDeleteIgnoresForeignAndMissingPaths(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, storage.Delete("https://res.cloudinary.com/demo/image/pic.jpg"))
	assert.NoError(t, storage.Delete("/uploads/profile-pictures/never-existed.png"))
	assert.NoError(t, storage.Delete("/uploads/../../../etc/passwd"))
}

func TestIsLocalUpload(t *testing.T) {
	assert.True(t, IsLocalUpload("/uploads/profile-pictures/a.png"))
	assert.False(t, IsLocalUpload("https://res.cloudinary.com/demo/image/pic.jpg"))
	assert.False(t, IsLocalUpload(""))
}
