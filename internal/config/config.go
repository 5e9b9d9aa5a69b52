package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Database
		Photos
		Places
		Redis
		Tasks
		Sweep
		Audit
		Auth
		Log
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Photos struct {
		Dir       string
		MaxWidth  int
		MaxHeight int
	}
	Places struct {
		APIKey         string
		BaseURL        string
		Timeout        time.Duration
		MinInterval    time.Duration // Minimum delay between two requests
		CacheTTL       time.Duration
		PhotoMaxWidth  int
		PhotoMaxHeight int
	}
	Redis struct {
		Addr     string // Empty disables Redis; an in-memory cache is used instead
		Password string
		DB       int
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Sweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Audit struct {
		RetentionDays int
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		TokenExpiry     time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		MaxLoginAttempts int           // Failed attempts before lockout
		LockoutDuration  time.Duration // How long a locked account stays locked
	}
	Log struct {
		Level  string
		Pretty bool
		File   string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// keyringGet is swapped in tests.
var keyringGet = keyring.Get

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("photos_dir", DefaultPhotosDir)
	v.SetDefault("photo_max_width", 1024)
	v.SetDefault("photo_max_height", 768)

	v.SetDefault("places_api_key", "")
	v.SetDefault("places_base_url", DefaultPlacesBaseURL)
	v.SetDefault("places_timeout", "10s")
	v.SetDefault("places_min_interval", "100ms")
	v.SetDefault("places_cache_ttl", "24h")
	v.SetDefault("places_photo_max_width", 1024)
	v.SetDefault("places_photo_max_height", 768)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("sweep_enabled", true)
	v.SetDefault("sweep_schedule", "0 3 * * *")
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("log_file", "")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_token_expiry", "720h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_lockout_duration", "30m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Photos: Photos{
			Dir:       v.GetString("PHOTOS_DIR"),
			MaxWidth:  v.GetInt("PHOTO_MAX_WIDTH"),
			MaxHeight: v.GetInt("PHOTO_MAX_HEIGHT"),
		},
		Places: Places{
			APIKey:         placesAPIKey(v),
			BaseURL:        strings.TrimRight(v.GetString("PLACES_BASE_URL"), "/"),
			Timeout:        v.GetDuration("PLACES_TIMEOUT"),
			MinInterval:    v.GetDuration("PLACES_MIN_INTERVAL"),
			CacheTTL:       v.GetDuration("PLACES_CACHE_TTL"),
			PhotoMaxWidth:  v.GetInt("PLACES_PHOTO_MAX_WIDTH"),
			PhotoMaxHeight: v.GetInt("PLACES_PHOTO_MAX_HEIGHT"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Sweep: Sweep{
			Enabled:  v.GetBool("SWEEP_ENABLED"),
			Schedule: v.GetString("SWEEP_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			TokenExpiry:      v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
			File:   v.GetString("LOG_FILE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

// placesAPIKey prefers the environment and falls back to the OS keyring.
func placesAPIKey(v *viper.Viper) string {
	if key := v.GetString("PLACES_API_KEY"); key != "" {
		return key
	}
	key, err := keyringGet(KeyringService, KeyringPlacesAPIKey)
	if err != nil {
		return ""
	}
	return key
}

// StorePlacesAPIKey saves the places API key in the OS keyring.
func StorePlacesAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, KeyringPlacesAPIKey, key)
}

// TasksDatabasePath is the backlite database stored next to the main one.
func (c *Config) TasksDatabasePath() string {
	return TasksDatabasePath(c.Database.Path)
}

// TasksDatabasePath derives the task-queue database path from the main
// database path: "./placebook.db" becomes "./placebook-tasks.db".
func TasksDatabasePath(dbPath string) string {
	if strings.HasSuffix(dbPath, ".db") {
		return strings.TrimSuffix(dbPath, ".db") + "-tasks.db"
	}
	return dbPath + "-tasks"
}
