package importers

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/exporters"
	"github.com/mrlokans/placebook/internal/logger"
)

// BookmarkAdder is the write side of the bookmark repository.
type BookmarkAdder interface {
	CreateBlank() *entities.Bookmark
	Add(ctx context.Context, b *entities.Bookmark) (uint, error)
	ListAll(ctx context.Context) ([]entities.Bookmark, error)
}

// Auditor records the import in the audit log.
type Auditor interface {
	Record(ctx context.Context, action entities.AuditAction, bookmarkID uint, description string, err error)
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Pipeline validates documents and adds their bookmarks one by one.
type Pipeline struct {
	bookmarks BookmarkAdder
	auditor   Auditor
	log       logger.Logger
}

func NewPipeline(bookmarks BookmarkAdder, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{bookmarks: bookmarks, log: log}
}

// SetAuditor enables audit records for imports.
func (p *Pipeline) SetAuditor(a Auditor) {
	p.auditor = a
}

// ImportYAML converts a YAML document to JSON and imports it.
func (p *Pipeline) ImportYAML(ctx context.Context, data []byte) (ImportResult, error) {
	converted, err := YAMLToJSON(data)
	if err != nil {
		return ImportResult{}, err
	}
	return p.ImportJSON(ctx, converted)
}

// YAMLToJSON re-encodes a YAML document as JSON so it can be validated
// against the schema.
func YAMLToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	converted, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return converted, nil
}

// ImportJSON validates and imports a JSON document. Validation failures
// import nothing; failures of single records are counted and the rest of
// the document is still imported.
func (p *Pipeline) ImportJSON(ctx context.Context, data []byte) (ImportResult, error) {
	result, err := p.importJSON(ctx, data)
	if p.auditor != nil {
		p.auditor.Record(ctx, entities.AuditActionImport, 0,
			fmt.Sprintf("Imported %d bookmarks (%d skipped, %d failed)", result.Imported, result.Skipped, result.Failed), err)
	}
	return result, err
}

func (p *Pipeline) importJSON(ctx context.Context, data []byte) (ImportResult, error) {
	var result ImportResult

	if err := Validate(data); err != nil {
		return result, err
	}

	var doc exporters.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Version > exporters.DocumentVersion {
		return result, fmt.Errorf("%w: version %d is newer than supported version %d",
			ErrInvalidDocument, doc.Version, exporters.DocumentVersion)
	}

	known, err := p.knownPlaceIDs(ctx)
	if err != nil {
		return result, err
	}

	for i, rec := range doc.Bookmarks {
		if rec.PlaceID != "" && known[rec.PlaceID] {
			result.Skipped++
			continue
		}

		b := p.bookmarks.CreateBlank()
		rec.Apply(b)
		if _, err := p.bookmarks.Add(ctx, b); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("bookmark %d (%s): %v", i, rec.Name, err))
			p.log.Warn("failed to import bookmark", logger.Int("index", i), logger.String("name", rec.Name), logger.Error(err))
			continue
		}
		if rec.PlaceID != "" {
			known[rec.PlaceID] = true
		}
		result.Imported++
	}

	p.log.Info("import finished",
		logger.Int("imported", result.Imported),
		logger.Int("skipped", result.Skipped),
		logger.Int("failed", result.Failed))
	return result, nil
}

func (p *Pipeline) knownPlaceIDs(ctx context.Context) (map[string]bool, error) {
	existing, err := p.bookmarks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for i := range existing {
		if existing[i].HasPlace() {
			known[*existing[i].PlaceID] = true
		}
	}
	return known, nil
}
