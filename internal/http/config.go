package http

import (
	"github.com/mrlokans/placebook/internal/auth"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/logger"
)

// BookmarkAPI is everything the bookmark, photo and place controllers use.
// *services.BookmarkRepository satisfies it.
type BookmarkAPI interface {
	BookmarkService
	PhotoService
	PlaceBookmarker
}

// RouterConfig holds the router's dependencies. Optional ones may be nil and
// their routes are then not registered.
type RouterConfig struct {
	Bookmarks BookmarkAPI
	Database  HealthChecker
	PhotosDir string // probed by /health when set
	Logger    logger.Logger
	Version   string

	Places         PlaceLookup // optional
	PhotoMaxWidth  int
	PhotoMaxHeight int

	Tasks              TaskQueue   // optional
	Audit              AuditReader // optional
	AuditRetentionDays int

	// Authentication
	AuthConfig     config.Auth
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
}
