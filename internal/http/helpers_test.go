package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/database/bookmarks"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/photos"
	"github.com/mrlokans/placebook/internal/places"
	"github.com/mrlokans/placebook/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePlaces struct {
	places map[string]*places.Place
	err    error
}

func (f *fakePlaces) Details(_ context.Context, placeID string) (*places.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.places[placeID]
	if !ok {
		return nil, places.ErrPlaceNotFound
	}
	return p, nil
}

func (f *fakePlaces) Configured() bool { return true }

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []backlite.Task
	status   backlite.TaskStatus
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, tasks ...backlite.Task) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		q.enqueued = append(q.enqueued, t)
		ids[i] = "task-" + t.Config().Name
	}
	return ids, nil
}

func (q *fakeQueue) Status(_ context.Context, _ string) (backlite.TaskStatus, error) {
	return q.status, q.err
}

func (q *fakeQueue) tasks() []backlite.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]backlite.Task(nil), q.enqueued...)
}

type fakeAudit struct {
	events []entities.AuditEvent
}

func (f *fakeAudit) Recent(_ context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return page(f.events, limit, offset), int64(len(f.events)), nil
}

func (f *fakeAudit) ForBookmark(_ context.Context, id uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var out []entities.AuditEvent
	for _, e := range f.events {
		if e.BookmarkID != nil && *e.BookmarkID == id {
			out = append(out, e)
		}
	}
	return page(out, limit, offset), int64(len(out)), nil
}

func page(events []entities.AuditEvent, limit, offset int) []entities.AuditEvent {
	if offset >= len(events) {
		return nil
	}
	end := offset + limit
	if end > len(events) {
		end = len(events)
	}
	return events[offset:end]
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("database is down")

type testServer struct {
	router *gin.Engine
	repo   *services.BookmarkRepository
	photos *photos.Store
	places *fakePlaces
	queue  *fakeQueue
	audit  *fakeAudit
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "placebook.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entities.Bookmark{}))

	photoStore, err := photos.NewStore(filepath.Join(dir, "photos"), 1024, 768)
	require.NoError(t, err)

	repo := services.NewBookmarkRepository(bookmarks.NewRepository(db), photoStore, category.NewClassifier(), nil)

	ts := &testServer{
		repo:   repo,
		photos: photoStore,
		places: &fakePlaces{places: map[string]*places.Place{}},
		queue:  &fakeQueue{status: backlite.TaskStatusSuccess},
		audit:  &fakeAudit{},
	}
	ts.router = NewRouter(RouterConfig{
		Bookmarks:          repo,
		Database:           fakePinger{},
		PhotosDir:          photoStore.Dir(),
		Version:            "test",
		Places:             ts.places,
		PhotoMaxWidth:      400,
		PhotoMaxHeight:     300,
		Tasks:              ts.queue,
		Audit:              ts.audit,
		AuditRetentionDays: 30,
		AuthConfig:         config.Auth{Mode: config.AuthModeNone},
	})
	return ts
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		if _, raw := body.([]byte); !raw {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (ts *testServer) create(t *testing.T, body map[string]any) BookmarkView {
	t.Helper()
	w := ts.do(http.MethodPost, "/api/bookmarks", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view BookmarkView
	decode(t, w, &view)
	return view
}
