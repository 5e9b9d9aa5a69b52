package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/database/users"
	"github.com/mrlokans/placebook/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse-battery"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func testAuthConfig(mode config.AuthMode) config.Auth {
	return config.Auth{
		Mode:             mode,
		SessionLifetime:  time.Hour,
		BcryptCost:       4,
		MaxLoginAttempts: 3,
		LockoutDuration:  time.Minute,
	}
}

func setupService(t *testing.T, mode config.AuthMode) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(users.NewRepository(db), testAuthConfig(mode), nil), db
}
