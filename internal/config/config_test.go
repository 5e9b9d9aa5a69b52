package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("PLACES_API_KEY", "env-key")

	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultPhotosDir, cfg.Photos.Dir)
	assert.Equal(t, 1024, cfg.Photos.MaxWidth)
	assert.Equal(t, 768, cfg.Photos.MaxHeight)
	assert.Equal(t, DefaultPlacesBaseURL, cfg.Places.BaseURL)
	assert.Equal(t, 100*time.Millisecond, cfg.Places.MinInterval)
	assert.Equal(t, "0 3 * * *", cfg.Sweep.Schedule)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Auth.LockoutDuration)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, "env-key", cfg.Places.APIKey)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PHOTOS_DIR", "/var/lib/placebook/photos")
	t.Setenv("PLACES_BASE_URL", "http://localhost:8080/")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("PLACES_API_KEY", "x")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/var/lib/placebook/photos", cfg.Photos.Dir)
	assert.Equal(t, "http://localhost:8080", cfg.Places.BaseURL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
}

func TestPlacesAPIKey_FallsBackToKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv("PLACES_API_KEY", "")

	assert.Equal(t, "", NewConfig().Places.APIKey)

	assert.NoError(t, StorePlacesAPIKey("from-keyring"))
	assert.Equal(t, "from-keyring", NewConfig().Places.APIKey)
}

func TestPlacesAPIKey_KeyringErrorIgnored(t *testing.T) {
	orig := keyringGet
	keyringGet = func(string, string) (string, error) { return "", errors.New("no keyring") }
	t.Cleanup(func() { keyringGet = orig })
	t.Setenv("PLACES_API_KEY", "")

	assert.Equal(t, "", NewConfig().Places.APIKey)
}

func TestStorePlacesAPIKey_Empty(t *testing.T) {
	assert.Error(t, StorePlacesAPIKey("  "))
}

func TestTasksDatabasePath(t *testing.T) {
	assert.Equal(t, "./placebook-tasks.db", TasksDatabasePath("./placebook.db"))
	assert.Equal(t, "/data/book-tasks", TasksDatabasePath("/data/book"))

	cfg := &Config{Database: Database{Path: "a.db"}}
	assert.Equal(t, "a-tasks.db", cfg.TasksDatabasePath())
}
