package http

import (
	"context"
	"image"
	"io"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/places"
)

// Each controller depends on the narrowest interface it needs. This file
// collects them.

// BookmarkReader provides read access to bookmarks.
type BookmarkReader interface {
	Get(ctx context.Context, id uint) (*entities.Bookmark, error)
	ListAll(ctx context.Context) ([]entities.Bookmark, error)
	Search(ctx context.Context, query string) ([]entities.Bookmark, error)
	ListByCategory(ctx context.Context, cat category.Category) ([]entities.Bookmark, error)
	Count(ctx context.Context) (int64, error)
}

// BookmarkObserver streams bookmark changes.
type BookmarkObserver interface {
	Observe(ctx context.Context, id uint) (<-chan *entities.Bookmark, error)
	ObserveAll(ctx context.Context) (<-chan []entities.Bookmark, error)
}

// CategoryResolver classifies places and resolves icons.
type CategoryResolver interface {
	Categories() []category.Category
	IconFor(cat category.Category) (category.Icon, bool)
	CategoryFor(code category.PlaceType) category.Category
	CategoryForName(name string) category.Category
}

// BookmarkService is the full bookmark repository used by the bookmark
// controller.
type BookmarkService interface {
	BookmarkReader
	BookmarkObserver
	CategoryResolver

	CreateBlank() *entities.Bookmark
	Add(ctx context.Context, b *entities.Bookmark) (uint, error)
	Update(ctx context.Context, b *entities.Bookmark) error
	Remove(ctx context.Context, b *entities.Bookmark) error
	ShareText(b *entities.Bookmark) (subject, text, link string)
}

// PhotoService manages bookmark photos.
type PhotoService interface {
	PhotoPath(ctx context.Context, id uint) (string, bool, error)
	SetPhotoEncoded(ctx context.Context, id uint, src io.Reader) error
	DeletePhoto(ctx context.Context, id uint) error
}

// PlaceBookmarker creates bookmarks from place details.
type PlaceBookmarker interface {
	CategoryResolver
	AddFromPlace(ctx context.Context, place *places.Place, img image.Image) (*entities.Bookmark, error)
}

// PlaceLookup fetches place details from the places service.
type PlaceLookup interface {
	Details(ctx context.Context, placeID string) (*places.Place, error)
	Configured() bool
}

// TaskQueue enqueues background work and reports its status.
type TaskQueue interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// AuditReader lists audit events.
type AuditReader interface {
	Recent(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error)
	ForBookmark(ctx context.Context, bookmarkID uint, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
