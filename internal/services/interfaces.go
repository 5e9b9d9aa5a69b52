package services

import (
	"context"
	"image"
	"io"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
)

// RecordStore is the durable bookmark storage the repository delegates to.
type RecordStore interface {
	Insert(ctx context.Context, b *entities.Bookmark) (uint, error)
	Update(ctx context.Context, b *entities.Bookmark) error
	Get(ctx context.Context, id uint) (*entities.Bookmark, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Observe(ctx context.Context, id uint) (<-chan *entities.Bookmark, error)
	Delete(ctx context.Context, b *entities.Bookmark) error
	ListAll(ctx context.Context) ([]entities.Bookmark, error)
	ObserveAll(ctx context.Context) (<-chan []entities.Bookmark, error)
	Search(ctx context.Context, query string) ([]entities.Bookmark, error)
	ListByCategory(ctx context.Context, cat category.Category) ([]entities.Bookmark, error)
	Count(ctx context.Context) (int64, error)
	IDs(ctx context.Context) ([]uint, error)
}

// PhotoStore keeps one image per bookmark id.
type PhotoStore interface {
	Path(id uint) string
	Exists(id uint) bool
	Save(id uint, img image.Image) error
	SaveEncoded(id uint, r io.Reader) error
	Fetch(ctx context.Context, id uint, url string) error
	Delete(id uint) error
	IDs() ([]uint, error)
}

// Auditor records lifecycle events. Implementations must not block for long
// and must not fail the calling operation.
type Auditor interface {
	Record(ctx context.Context, action entities.AuditAction, bookmarkID uint, description string, err error)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, entities.AuditAction, uint, string, error) {}
