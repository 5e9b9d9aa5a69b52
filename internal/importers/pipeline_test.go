package importers

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/exporters"
)

type mockRepository struct {
	bookmarks []entities.Bookmark
	failName  string
}

func (m *mockRepository) CreateBlank() *entities.Bookmark {
	return entities.NewBookmark()
}

func (m *mockRepository) Add(_ context.Context, b *entities.Bookmark) (uint, error) {
	if b.Name == m.failName {
		return 0, errors.New("insert failed")
	}
	if b.Category == "" {
		b.Category = category.Default
	}
	b.ID = uint(len(m.bookmarks) + 1)
	m.bookmarks = append(m.bookmarks, *b)
	return b.ID, nil
}

func (m *mockRepository) ListAll(context.Context) ([]entities.Bookmark, error) {
	return m.bookmarks, nil
}

type mockAuditor struct {
	actions []entities.AuditAction
}

func (m *mockAuditor) Record(_ context.Context, action entities.AuditAction, _ uint, _ string, _ error) {
	m.actions = append(m.actions, action)
}

const validDocument = `{
  "version": 1,
  "bookmarks": [
    {"place_id": "ChIJ1", "name": "Cafe Central", "category": "Restaurant", "latitude": 48.21, "longitude": 16.36},
    {"name": "Parking spot", "notes": "level 3", "latitude": 1, "longitude": 2}
  ]
}`

func TestImportJSON(t *testing.T) {
	repo := &mockRepository{}
	auditor := &mockAuditor{}
	p := NewPipeline(repo, nil)
	p.SetAuditor(auditor)

	result, err := p.ImportJSON(context.Background(), []byte(validDocument))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)

	require.Len(t, repo.bookmarks, 2)
	assert.Equal(t, "ChIJ1", *repo.bookmarks[0].PlaceID)
	assert.Equal(t, category.Restaurant, repo.bookmarks[0].Category)
	assert.Nil(t, repo.bookmarks[1].PlaceID)
	assert.Equal(t, category.Other, repo.bookmarks[1].Category)
	assert.Equal(t, []entities.AuditAction{entities.AuditActionImport}, auditor.actions)
}

func TestImportJSON_SkipsKnownPlaces(t *testing.T) {
	repo := &mockRepository{}
	p := NewPipeline(repo, nil)

	_, err := p.ImportJSON(context.Background(), []byte(validDocument))
	require.NoError(t, err)

	result, err := p.ImportJSON(context.Background(), []byte(validDocument))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Imported, "manual pins have no identity and are imported again")
}

func TestImportJSON_CountsFailedRecords(t *testing.T) {
	repo := &mockRepository{failName: "Parking spot"}
	p := NewPipeline(repo, nil)

	result, err := p.ImportJSON(context.Background(), []byte(validDocument))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Parking spot")
}

func TestImportJSON_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing bookmarks", `{"version": 1}`},
		{"unknown category", `{"version": 1, "bookmarks": [{"name": "x", "category": "Food", "latitude": 0, "longitude": 0}]}`},
		{"latitude out of range", `{"version": 1, "bookmarks": [{"name": "x", "latitude": 120, "longitude": 0}]}`},
		{"unknown field", `{"version": 1, "bookmarks": [{"name": "x", "latitude": 0, "longitude": 0, "id": 4}]}`},
		{"newer version", `{"version": 9, "bookmarks": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			_, err := NewPipeline(repo, nil).ImportJSON(context.Background(), []byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.Empty(t, repo.bookmarks, "nothing may be imported from an invalid document")
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	err := Validate([]byte(`{"version": 0, "bookmarks": [{"latitude": 100, "longitude": 0}]}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Problems), 3)
}

func TestImportYAML(t *testing.T) {
	doc := `
version: 1
bookmarks:
  - name: Harbour Inn
    place_id: ChIJ2
    category: Lodging
    latitude: 51.0
    longitude: -1.5
`
	repo := &mockRepository{}
	result, err := NewPipeline(repo, nil).ImportYAML(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, category.Lodging, repo.bookmarks[0].Category)

	_, err = NewPipeline(repo, nil).ImportYAML(context.Background(), []byte("version: [1"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestImport_ExportRoundTrip(t *testing.T) {
	src := &mockRepository{}
	_, err := NewPipeline(src, nil).ImportJSON(context.Background(), []byte(validDocument))
	require.NoError(t, err)

	for _, format := range []exporters.Format{exporters.FormatJSON, exporters.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			_, err := exporters.NewExporter(src).Export(context.Background(), &buf, format)
			require.NoError(t, err)

			dst := &mockRepository{}
			p := NewPipeline(dst, nil)
			var result ImportResult
			if format == exporters.FormatJSON {
				result, err = p.ImportJSON(context.Background(), buf.Bytes())
			} else {
				result, err = p.ImportYAML(context.Background(), buf.Bytes())
			}
			require.NoError(t, err)
			assert.Equal(t, 2, result.Imported)
			assert.Equal(t, src.bookmarks[0].Name, dst.bookmarks[0].Name)
			assert.Equal(t, src.bookmarks[1].Notes, dst.bookmarks[1].Notes)
		})
	}
}
