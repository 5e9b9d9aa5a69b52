package entities

import (
	"time"

	"github.com/mrlokans/placebook/internal/category"
)

// Bookmark is a saved map location. ID 0 means the record has not been
// persisted yet.
type Bookmark struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	PlaceID   *string           `gorm:"index;size:255" json:"place_id,omitempty"`
	Name      string            `gorm:"index;size:512" json:"name"`
	Phone     string            `gorm:"size:64" json:"phone"`
	Address   string            `gorm:"size:1024" json:"address"`
	Notes     string            `gorm:"type:text" json:"notes"`
	Category  category.Category `gorm:"index;size:32;default:Other" json:"category"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// NewBookmark returns an unpersisted bookmark with default field values.
func NewBookmark() *Bookmark {
	return &Bookmark{Category: category.Default}
}

// HasPlace reports whether the bookmark references a place from the places
// service, as opposed to a manually dropped pin.
func (b *Bookmark) HasPlace() bool {
	return b.PlaceID != nil && *b.PlaceID != ""
}

// Persisted reports whether the store has assigned an id.
func (b *Bookmark) Persisted() bool {
	return b.ID != 0
}
