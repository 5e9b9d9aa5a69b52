package entrypoint

import (
	"fmt"

	"github.com/mrlokans/placebook/internal/audit"
	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/database"
	auditrepo "github.com/mrlokans/placebook/internal/database/audit"
	"github.com/mrlokans/placebook/internal/database/bookmarks"
	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/photos"
	"github.com/mrlokans/placebook/internal/services"
)

// Core holds the storage stack shared by the server and the CLI commands.
type Core struct {
	DB        *database.Database
	Photos    *photos.Store
	Audit     *audit.Service
	Bookmarks *services.BookmarkRepository
}

// OpenCore opens the database and photo directory and builds the bookmark
// repository on top of them.
func OpenCore(cfg *config.Config, log logger.Logger) (*Core, error) {
	db, err := database.NewDatabase(cfg.Database.Path, database.Options{Logger: log})
	if err != nil {
		return nil, err
	}

	photoStore, err := photos.NewStore(cfg.Photos.Dir, cfg.Photos.MaxWidth, cfg.Photos.MaxHeight)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open photo directory: %w", err)
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), log.With(logger.String("component", "audit")))

	store := bookmarks.NewRepository(db.DB)
	store.SetLogger(log.With(logger.String("component", "bookmarks")))

	repo := services.NewBookmarkRepository(store, photoStore, category.NewClassifier(), log)
	repo.SetAuditor(auditService)

	return &Core{
		DB:        db,
		Photos:    photoStore,
		Audit:     auditService,
		Bookmarks: repo,
	}, nil
}

func (c *Core) Close() error {
	return c.DB.Close()
}

// NewLogger builds the process logger from the log settings.
func NewLogger(cfg config.Log) logger.Logger {
	return logger.New(logger.Options{
		Level:  cfg.Level,
		Pretty: cfg.Pretty,
		File:   cfg.File,
	})
}
