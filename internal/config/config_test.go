package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "HOST", "PORT", "ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2", "GEMINI_MODEL", "UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.AllowedHost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("HOST", "https://api.mindhaven.app")
	t.Setenv("ALLOWED_ORIGINS", "https://mindhaven.app, https://www.mindhaven.app")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "api.mindhaven.app", cfg.AllowedHost)
	assert.Equal(t, []string{"https://mindhaven.app", "https://www.mindhaven.app"}, cfg.AllowedOrigins)
}

func TestStripToHostname(t *testing.T) {
	assert.Equal(t, "api.mindhaven.app", stripToHostname("https://api.mindhaven.app"))
	assert.Equal(t, "api.mindhaven.app", stripToHostname("http://api.mindhaven.app/health"))
	assert.Equal(t, "localhost", stripToHostname("http://localhost:8080"))
	assert.Equal(t, "example.com", stripToHostname("example.com"))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins("a, b"))
	assert.Equal(t, []string{"a"}, parseOrigins("a,,  ,"))
}
