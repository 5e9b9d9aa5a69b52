package tasks

import (
	"context"

	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/places"
)

// PlaceSource looks up place details for bookmarks that carry a place id.
type PlaceSource interface {
	Details(ctx context.Context, placeID string) (*places.Place, error)
	Refresh(ctx context.Context, placeID string) (*places.Place, error)
	PhotoURL(ref string, maxW, maxH int) string
}

// Bookmarks is the part of the bookmark repository background jobs use.
type Bookmarks interface {
	Get(ctx context.Context, id uint) (*entities.Bookmark, error)
	ApplyPlace(ctx context.Context, id uint, place *places.Place) (*entities.Bookmark, error)
	FetchPhoto(ctx context.Context, id uint, url string) error
	PruneOrphanPhotos(ctx context.Context) (int, error)
}

// AuditEventCleaner deletes old audit events.
type AuditEventCleaner interface {
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}
