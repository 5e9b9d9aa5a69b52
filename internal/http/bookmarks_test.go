package http

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/placebook/internal/category"
)

func TestBookmarks_NewReturnsDefaults(t *testing.T) {
	ts := setupServer(t)

	w := ts.do(http.MethodGet, "/api/bookmarks/new", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view BookmarkView
	decode(t, w, &view)
	assert.Zero(t, view.ID)
	assert.Equal(t, category.Other, view.Category)
	assert.Equal(t, category.Icon("ic_other"), view.Icon)
	assert.Empty(t, view.PhotoURL)
}

func TestBookmarks_CRUD(t *testing.T) {
	ts := setupServer(t)

	created := ts.create(t, map[string]any{
		"name":      "  Corner Bakery ",
		"address":   "1 Main St",
		"category":  "Restaurant",
		"latitude":  52.5,
		"longitude": 13.4,
	})
	require.NotZero(t, created.ID)
	assert.Equal(t, "Corner Bakery", created.Name)
	assert.Equal(t, category.Icon("ic_restaurant"), created.Icon)
	assert.Equal(t, "/api/bookmarks/"+uintString(created.ID)+"/photo", created.PhotoURL)

	path := "/api/bookmarks/" + uintString(created.ID)

	w := ts.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got BookmarkView
	decode(t, w, &got)
	assert.Equal(t, 52.5, got.Latitude)

	w = ts.do(http.MethodPut, path, map[string]any{
		"name":     "Corner Bakery",
		"notes":    "try the rye",
		"category": "Shopping",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &got)
	assert.Equal(t, "try the rye", got.Notes)
	assert.Equal(t, category.Shopping, got.Category)
	assert.Equal(t, 52.5, got.Latitude, "coordinates kept when omitted")

	w = ts.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "warning")

	w = ts.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookmarks_UpdateKeepsOmittedFields(t *testing.T) {
	ts := setupServer(t)

	created := ts.create(t, map[string]any{
		"name":     "Cafe Luna",
		"place_id": "p1",
		"category": "Restaurant",
		"address":  "1 Main",
		"phone":    "555-0100",
		"notes":    "window seat",
		"latitude": 47.6,
	})
	path := "/api/bookmarks/" + uintString(created.ID)

	w := ts.do(http.MethodPut, path, map[string]any{"name": "Cafe Luna West"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got BookmarkView
	decode(t, w, &got)
	assert.Equal(t, "Cafe Luna West", got.Name)
	assert.Equal(t, category.Restaurant, got.Category)
	assert.Equal(t, "1 Main", got.Address)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "window seat", got.Notes)
	assert.Equal(t, 47.6, got.Latitude)
	require.NotNil(t, got.PlaceID)
	assert.Equal(t, "p1", *got.PlaceID)

	w = ts.do(http.MethodPut, path, map[string]any{"notes": "", "place_id": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cleared BookmarkView
	decode(t, w, &cleared)
	assert.Empty(t, cleared.Notes, "explicit empty value clears the field")
	assert.Nil(t, cleared.PlaceID)
	assert.Equal(t, category.Restaurant, cleared.Category)
}

func TestBookmarks_CreateRejectsInvalidCategory(t *testing.T) {
	ts := setupServer(t)

	w := ts.do(http.MethodPost, "/api/bookmarks", map[string]any{"name": "x", "category": "Food"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "invalid_category", resp.Code)
}

func TestBookmarks_BadRequests(t *testing.T) {
	ts := setupServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"non-numeric id", http.MethodGet, "/api/bookmarks/abc", nil},
		{"zero id", http.MethodGet, "/api/bookmarks/0", nil},
		{"latitude out of range", http.MethodPost, "/api/bookmarks", map[string]any{"latitude": 91}},
		{"malformed json", http.MethodPost, "/api/bookmarks", []byte("{")},
		{"unknown category filter", http.MethodGet, "/api/bookmarks?category=Food", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestBookmarks_UpdateMissingIsNotFound(t *testing.T) {
	ts := setupServer(t)

	w := ts.do(http.MethodPut, "/api/bookmarks/42", map[string]any{"name": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodDelete, "/api/bookmarks/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookmarks_ListSearchAndFilter(t *testing.T) {
	ts := setupServer(t)
	ts.create(t, map[string]any{"name": "Blue Bottle", "category": "Restaurant"})
	ts.create(t, map[string]any{"name": "Blue Mall", "category": "Shopping"})
	ts.create(t, map[string]any{"name": "Shell", "category": "Gas"})

	type listResponse struct {
		Bookmarks []BookmarkView `json:"bookmarks"`
		Count     int            `json:"count"`
	}

	var resp listResponse
	w := ts.do(http.MethodGet, "/api/bookmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, 3, resp.Count)

	w = ts.do(http.MethodGet, "/api/bookmarks?q=blue", nil)
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Count)

	w = ts.do(http.MethodGet, "/api/bookmarks?q=blue&category=Shopping", nil)
	decode(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Blue Mall", resp.Bookmarks[0].Name)

	w = ts.do(http.MethodGet, "/api/bookmarks?category=Gas", nil)
	decode(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, category.Icon("ic_gas"), resp.Bookmarks[0].Icon)

	w = ts.do(http.MethodGet, "/api/bookmarks/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]int64
	decode(t, w, &stats)
	assert.Equal(t, int64(3), stats["total"])
}

func TestBookmarks_DeleteWarnsWhenPhotoRemains(t *testing.T) {
	ts := setupServer(t)
	created := ts.create(t, map[string]any{"name": "Stuck photo"})

	// A non-empty directory in place of the photo file cannot be removed.
	photoPath := ts.photos.Path(created.ID)
	require.NoError(t, os.MkdirAll(photoPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(photoPath, "keep"), []byte("x"), 0o644))

	w := ts.do(http.MethodDelete, "/api/bookmarks/"+uintString(created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warning")

	w = ts.do(http.MethodGet, "/api/bookmarks/"+uintString(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookmarks_Share(t *testing.T) {
	ts := setupServer(t)
	created := ts.create(t, map[string]any{
		"name":      "Harbour Inn",
		"address":   "2 Quay Rd",
		"latitude":  51.0,
		"longitude": -1.5,
	})

	w := ts.do(http.MethodGet, "/api/bookmarks/"+uintString(created.ID)+"/share", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Contains(t, resp["subject"], "Harbour Inn")
	assert.Contains(t, resp["text"], resp["url"])
	assert.Contains(t, resp["url"], "destination=51%2C-1.5")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPhotos_Lifecycle(t *testing.T) {
	ts := setupServer(t)
	created := ts.create(t, map[string]any{"name": "With photo"})
	path := "/api/bookmarks/" + uintString(created.ID) + "/photo"

	w := ts.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPut, path, pngBytes(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, ts.photos.Exists(created.ID))

	w = ts.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.Bytes())

	w = ts.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, ts.photos.Exists(created.ID))
}

func TestPhotos_MultipartUpload(t *testing.T) {
	ts := setupServer(t)
	created := ts.create(t, map[string]any{"name": "Multipart"})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/bookmarks/"+uintString(created.ID)+"/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, ts.photos.Exists(created.ID))
}

func TestPhotos_Errors(t *testing.T) {
	ts := setupServer(t)
	created := ts.create(t, map[string]any{"name": "Bad photo"})

	w := ts.do(http.MethodPut, "/api/bookmarks/"+uintString(created.ID)+"/photo", []byte("not an image"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(http.MethodPut, "/api/bookmarks/999/photo", pngBytes(t))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/bookmarks/999/photo", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
