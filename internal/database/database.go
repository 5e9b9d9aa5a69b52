package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
)

// ErrClosed is returned by Ping after Close.
var ErrClosed = errors.New("database is closed")

type Database struct {
	DB     *gorm.DB
	path   string
	closed bool
}

// Options tune NewDatabase. The zero value is usable.
type Options struct {
	Logger   logger.Logger
	LogLevel gormlogger.LogLevel // Defaults to Warn
}

func NewDatabase(dbPath string, opts ...Options) (*Database, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Logger == nil {
		o.Logger = logger.NewNop()
	}
	if o.LogLevel == 0 {
		o.LogLevel = gormlogger.Warn
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(o.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps reads after a
	// committed write consistent and avoids SQLITE_BUSY under load.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.Bookmark{},
		&entities.User{},
		&entities.AuditEvent{},
	)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	o.Logger.Info("database initialized", logger.String("path", dbPath))

	return &Database{DB: db, path: dbPath}, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// Path returns the file the database was opened from.
func (d *Database) Path() string {
	return d.path
}

// Ping checks that the database answers.
func (d *Database) Ping(ctx context.Context) error {
	if d.closed {
		return ErrClosed
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	if d.closed {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	d.closed = true
	return sqlDB.Close()
}
