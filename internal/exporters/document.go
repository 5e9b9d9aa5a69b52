package exporters

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
)

// DocumentVersion is written into every export. Importers reject documents
// with a newer version.
const DocumentVersion = 1

// Document is the portable form of a bookmark collection, shared by the
// exporter and the importer.
type Document struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Bookmarks  []Record  `json:"bookmarks" yaml:"bookmarks"`
}

// Record is one bookmark without its store-assigned id. Ids are local to a
// database, so they are never exported.
type Record struct {
	PlaceID   string            `json:"place_id,omitempty" yaml:"place_id,omitempty"`
	Name      string            `json:"name" yaml:"name"`
	Phone     string            `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address   string            `json:"address,omitempty" yaml:"address,omitempty"`
	Notes     string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Category  category.Category `json:"category" yaml:"category"`
	Latitude  float64           `json:"latitude" yaml:"latitude"`
	Longitude float64           `json:"longitude" yaml:"longitude"`
	CreatedAt time.Time         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// NewRecord converts a stored bookmark.
func NewRecord(b *entities.Bookmark) Record {
	r := Record{
		Name:      b.Name,
		Phone:     b.Phone,
		Address:   b.Address,
		Notes:     b.Notes,
		Category:  b.Category,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		CreatedAt: b.CreatedAt,
	}
	if b.HasPlace() {
		r.PlaceID = *b.PlaceID
	}
	return r
}

// Apply copies the record onto an unsaved bookmark.
func (r Record) Apply(b *entities.Bookmark) {
	if r.PlaceID != "" {
		id := r.PlaceID
		b.PlaceID = &id
	}
	b.Name = r.Name
	b.Phone = r.Phone
	b.Address = r.Address
	b.Notes = r.Notes
	b.Category = r.Category
	b.Latitude = r.Latitude
	b.Longitude = r.Longitude
}

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}
