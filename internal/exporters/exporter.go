package exporters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/placebook/internal/entities"
)

// BookmarkLister is the read side of the bookmark repository.
type BookmarkLister interface {
	ListAll(ctx context.Context) ([]entities.Bookmark, error)
}

// Auditor records the export in the audit log.
type Auditor interface {
	Record(ctx context.Context, action entities.AuditAction, bookmarkID uint, description string, err error)
}

type ExportResult struct {
	BookmarksExported int    `json:"bookmarks_exported"`
	Format            Format `json:"format"`
}

// Exporter writes every bookmark as a Document.
type Exporter struct {
	bookmarks BookmarkLister
	auditor   Auditor
	now       func() time.Time
}

func NewExporter(bookmarks BookmarkLister) *Exporter {
	return &Exporter{bookmarks: bookmarks, now: time.Now}
}

// SetAuditor enables audit records for exports.
func (e *Exporter) SetAuditor(a Auditor) {
	e.auditor = a
}

// Export writes all bookmarks to w in the given format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, format Format) (ExportResult, error) {
	result, err := e.export(ctx, w, format)
	if e.auditor != nil {
		e.auditor.Record(ctx, entities.AuditActionExport, 0,
			fmt.Sprintf("Exported %d bookmarks as %s", result.BookmarksExported, format), err)
	}
	return result, err
}

func (e *Exporter) export(ctx context.Context, w io.Writer, format Format) (ExportResult, error) {
	result := ExportResult{Format: format}

	list, err := e.bookmarks.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: e.now().UTC().Truncate(time.Second),
		Bookmarks:  make([]Record, 0, len(list)),
	}
	for i := range list {
		doc.Bookmarks = append(doc.Bookmarks, NewRecord(&list[i]))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	default:
		return result, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return result, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	result.BookmarksExported = len(doc.Bookmarks)
	return result, nil
}
