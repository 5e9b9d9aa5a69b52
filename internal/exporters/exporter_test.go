package exporters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
)

type mockLister struct {
	bookmarks []entities.Bookmark
	err       error
}

func (m *mockLister) ListAll(context.Context) ([]entities.Bookmark, error) {
	return m.bookmarks, m.err
}

type mockAuditor struct {
	actions []entities.AuditAction
	errs    []error
}

func (m *mockAuditor) Record(_ context.Context, action entities.AuditAction, _ uint, _ string, err error) {
	m.actions = append(m.actions, action)
	m.errs = append(m.errs, err)
}

func fixture() []entities.Bookmark {
	placeID := "ChIJ1"
	return []entities.Bookmark{
		{ID: 1, PlaceID: &placeID, Name: "Cafe Central", Address: "Herrengasse 14", Category: category.Restaurant, Latitude: 48.21, Longitude: 16.36},
		{ID: 2, Name: "Parking spot", Notes: "level 3", Category: category.Other, Latitude: 1, Longitude: 2},
	}
}

func newTestExporter(list []entities.Bookmark) *Exporter {
	e := NewExporter(&mockLister{bookmarks: list})
	e.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestExport_JSON(t *testing.T) {
	e := newTestExporter(fixture())

	var buf bytes.Buffer
	result, err := e.Export(context.Background(), &buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, result.BookmarksExported)

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, 2024, doc.ExportedAt.Year())
	require.Len(t, doc.Bookmarks, 2)
	assert.Equal(t, "ChIJ1", doc.Bookmarks[0].PlaceID)
	assert.Equal(t, category.Restaurant, doc.Bookmarks[0].Category)
	assert.Empty(t, doc.Bookmarks[1].PlaceID)
	assert.NotContains(t, buf.String(), `"id"`)
}

func TestExport_YAML(t *testing.T) {
	e := newTestExporter(fixture())

	var buf bytes.Buffer
	_, err := e.Export(context.Background(), &buf, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "name: Cafe Central")

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Bookmarks, 2)
	assert.Equal(t, "level 3", doc.Bookmarks[1].Notes)
}

func TestExport_Empty(t *testing.T) {
	e := newTestExporter(nil)

	var buf bytes.Buffer
	result, err := e.Export(context.Background(), &buf, FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, result.BookmarksExported)
	assert.Contains(t, buf.String(), `"bookmarks": []`)
}

func TestExport_Errors(t *testing.T) {
	auditor := &mockAuditor{}
	e := NewExporter(&mockLister{err: errors.New("disk on fire")})
	e.SetAuditor(auditor)

	_, err := e.Export(context.Background(), &bytes.Buffer{}, FormatJSON)
	require.Error(t, err)
	require.Len(t, auditor.actions, 1)
	assert.Equal(t, entities.AuditActionExport, auditor.actions[0])
	assert.Error(t, auditor.errs[0])

	_, err = newTestExporter(fixture()).Export(context.Background(), &bytes.Buffer{}, Format("csv"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, " yml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestRecord_ApplyRoundTrip(t *testing.T) {
	src := fixture()[0]
	dst := entities.NewBookmark()
	NewRecord(&src).Apply(dst)

	require.NotNil(t, dst.PlaceID)
	assert.Equal(t, "ChIJ1", *dst.PlaceID)
	assert.Equal(t, src.Name, dst.Name)
	assert.Equal(t, src.Latitude, dst.Latitude)
	assert.Zero(t, dst.ID)
}
