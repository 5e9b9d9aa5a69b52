package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/placebook/internal/audit"
	"github.com/mrlokans/placebook/internal/auth"
	"github.com/mrlokans/placebook/internal/database"
	"github.com/mrlokans/placebook/internal/database/bookmarks"
	"github.com/mrlokans/placebook/internal/database/users"
	"github.com/mrlokans/placebook/internal/exporters"
	"github.com/mrlokans/placebook/internal/http"
	"github.com/mrlokans/placebook/internal/importers"
	"github.com/mrlokans/placebook/internal/photos"
	"github.com/mrlokans/placebook/internal/places"
	"github.com/mrlokans/placebook/internal/scheduler"
	"github.com/mrlokans/placebook/internal/services"
	"github.com/mrlokans/placebook/internal/tasks"
)

// =============================================================================
// Storage
// =============================================================================

var _ services.RecordStore = (*bookmarks.Repository)(nil)
var _ services.PhotoStore = (*photos.Store)(nil)
var _ auth.UserStore = (*users.Repository)(nil)

// =============================================================================
// Bookmark repository consumers
// =============================================================================

var _ http.BookmarkAPI = (*services.BookmarkRepository)(nil)
var _ tasks.Bookmarks = (*services.BookmarkRepository)(nil)
var _ scheduler.PhotoPruner = (*services.BookmarkRepository)(nil)
var _ exporters.BookmarkLister = (*services.BookmarkRepository)(nil)
var _ importers.BookmarkAdder = (*services.BookmarkRepository)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ services.Auditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.Auditor = (*audit.Service)(nil)
var _ exporters.Auditor = (*audit.Service)(nil)
var _ importers.Auditor = (*audit.Service)(nil)

// =============================================================================
// External services and infrastructure
// =============================================================================

var _ tasks.PlaceSource = (*places.Client)(nil)
var _ http.PlaceLookup = (*places.Client)(nil)
var _ places.Cache = (*places.RedisCache)(nil)
var _ places.Cache = (*places.MemoryCache)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.HealthChecker = (*database.Database)(nil)
