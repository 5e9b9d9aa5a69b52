package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/database/bookmarks"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/photos"
	"github.com/mrlokans/placebook/internal/places"
)

type testEnv struct {
	repo   *BookmarkRepository
	store  *bookmarks.Repository
	photos *photos.Store
	db     *gorm.DB
}

func setupRepository(t *testing.T) *testEnv {
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

	store := bookmarks.NewRepository(db)
	return &testEnv{
		repo:   NewBookmarkRepository(store, photoStore, category.NewClassifier(), nil),
		store:  store,
		photos: photoStore,
		db:     db,
	}
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	return img
}

func strPtr(s string) *string { return &s }

type recordedEvent struct {
	action entities.AuditAction
	id     uint
	err    error
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeAuditor) Record(_ context.Context, action entities.AuditAction, id uint, _ string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{action: action, id: id, err: err})
}

func (f *fakeAuditor) actions() []entities.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.AuditAction
	for _, e := range f.events {
		out = append(out, e.action)
	}
	return out
}

func TestCreateBlank(t *testing.T) {
	env := setupRepository(t)

	b := env.repo.CreateBlank()
	assert.Zero(t, b.ID)
	assert.Nil(t, b.PlaceID)
	assert.Equal(t, "", b.Name)
	assert.Equal(t, "", b.Phone)
	assert.Equal(t, "", b.Address)
	assert.Equal(t, "", b.Notes)
	assert.Equal(t, category.Other, b.Category)
	assert.Zero(t, b.Latitude)
	assert.Zero(t, b.Longitude)
}

func TestAddAndGet_CafeLuna(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	b := env.repo.CreateBlank()
	b.PlaceID = strPtr("ChIJ123")
	b.Name = "Cafe Luna"
	b.Category = category.Restaurant
	b.Latitude = 40.0
	b.Longitude = -74.0

	id, err := env.repo.Add(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Equal(t, uint(1), b.ID)

	got, err := env.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cafe Luna", got.Name)
	assert.Equal(t, category.Restaurant, got.Category)
	assert.Equal(t, "ChIJ123", *got.PlaceID)
	assert.Equal(t, 40.0, got.Latitude)
	assert.Equal(t, -74.0, got.Longitude)
}

func TestAdd_Categories(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	empty := &entities.Bookmark{Name: "no category"}
	_, err := env.repo.Add(ctx, empty)
	require.NoError(t, err)
	assert.Equal(t, category.Other, empty.Category)

	bad := &entities.Bookmark{Name: "bad", Category: "Museum"}
	_, err = env.repo.Add(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Zero(t, bad.ID)

	_, err = env.repo.Add(ctx, empty)
	assert.ErrorIs(t, err, ErrAlreadyPersisted)
}

func TestUpdate(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	b := &entities.Bookmark{Name: "Cafe Luna", Category: category.Restaurant}
	_, err := env.repo.Add(ctx, b)
	require.NoError(t, err)

	b.Notes = "closed on mondays"
	b.Category = category.Shopping
	require.NoError(t, env.repo.Update(ctx, b))

	got, err := env.repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed on mondays", got.Notes)
	assert.Equal(t, category.Shopping, got.Category)

	b.Category = "Nope"
	assert.ErrorIs(t, env.repo.Update(ctx, b), ErrInvalidCategory)

	missing := &entities.Bookmark{ID: 500, Name: "ghost"}
	assert.ErrorIs(t, env.repo.Update(ctx, missing), ErrNotFound)
}

func TestListAllAfterRemove(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	a := &entities.Bookmark{Name: "A"}
	b := &entities.Bookmark{Name: "B"}
	_, err := env.repo.Add(ctx, a)
	require.NoError(t, err)
	_, err = env.repo.Add(ctx, b)
	require.NoError(t, err)

	list, err := env.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, env.repo.Remove(ctx, a))

	list, err = env.repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Name)
}

func TestRemove_DeletesPhoto(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	b := &entities.Bookmark{Name: "With photo"}
	_, err := env.repo.Add(ctx, b)
	require.NoError(t, err)
	require.NoError(t, env.repo.SetPhoto(ctx, b.ID, testImage()))

	path, exists, err := env.repo.PhotoPath(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.FileExists(t, path)

	require.NoError(t, env.repo.Remove(ctx, b))
	assert.NoFileExists(t, path)

	_, err = env.repo.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_WithoutPhoto(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	b := &entities.Bookmark{Name: "No photo"}
	_, err := env.repo.Add(ctx, b)
	require.NoError(t, err)

	assert.NoError(t, env.repo.Remove(ctx, b))
	assert.ErrorIs(t, env.repo.Remove(ctx, b), ErrNotFound)
}

type brokenPhotos struct {
	PhotoStore
}

func (brokenPhotos) Delete(id uint) error {
	return &photos.AssetError{Op: "delete", ID: id, Err: os.ErrPermission}
}

func TestRemove_PhotoFailureStillDeletesRecord(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	auditor := &fakeAuditor{}
	repo := NewBookmarkRepository(env.store, brokenPhotos{env.photos}, nil, nil)
	repo.SetAuditor(auditor)

	b := &entities.Bookmark{Name: "Stuck photo"}
	_, err := repo.Add(ctx, b)
	require.NoError(t, err)

	err = repo.Remove(ctx, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssetIO)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = repo.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []entities.AuditAction{
		entities.AuditActionCreate,
		entities.AuditActionPhotoDelete,
		entities.AuditActionDelete,
	}, auditor.actions())
}

func TestRemove_StorageErrorWins(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	repo := NewBookmarkRepository(env.store, brokenPhotos{env.photos}, nil, nil)
	err := repo.Remove(ctx, &entities.Bookmark{ID: 321})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAssetIO)
}

func TestStorageUnavailable(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = env.repo.Add(ctx, &entities.Bookmark{Name: "offline"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = env.repo.ListAll(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestClassification(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := setupRepository(t)
	repo := NewBookmarkRepository(env.store, env.photos, nil, logger.FromZap(zap.New(core)))

	assert.Equal(t, category.Restaurant, repo.CategoryFor(category.PlaceTypeBakery))
	assert.Equal(t, 0, logs.Len())

	assert.Equal(t, category.Other, repo.CategoryFor(9999))
	assert.Equal(t, 1, logs.FilterMessage("place type has no category, using default").Len())

	assert.Equal(t, category.Gas, repo.CategoryForName("gas_station"))
	assert.Equal(t, category.Other, repo.CategoryForName("museum"))

	icon, ok := repo.IconFor(category.Lodging)
	assert.True(t, ok)
	assert.Equal(t, category.Icon("ic_lodging"), icon)

	_, ok = repo.IconFor("Museum")
	assert.False(t, ok)

	assert.Len(t, repo.Categories(), 5)
}

func TestObserve_ThroughRepository(t *testing.T) {
	env := setupRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &entities.Bookmark{Name: "Cafe Luna"}
	_, err := env.repo.Add(ctx, b)
	require.NoError(t, err)

	updates, err := env.repo.Observe(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cafe Luna", (<-updates).Name)

	require.NoError(t, env.repo.Remove(ctx, b))
	assert.Nil(t, <-updates)

	_, err = env.repo.Observe(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddFromPlace(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	place := &places.Place{
		ID:        "ChIJ123",
		Name:      "Cafe Luna",
		Address:   "1 Main St",
		Phone:     "(555) 010-0000",
		Latitude:  40.0,
		Longitude: -74.0,
		Types:     []string{"bakery", "gas_station"},
	}

	b, err := env.repo.AddFromPlace(ctx, place, testImage())
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, category.Restaurant, b.Category, "only the first type is used")
	assert.Equal(t, "ChIJ123", *b.PlaceID)
	assert.True(t, env.photos.Exists(b.ID))

	noTypes := &places.Place{ID: "ChIJ456", Name: "Somewhere"}
	b2, err := env.repo.AddFromPlace(ctx, noTypes, nil)
	require.NoError(t, err)
	assert.Equal(t, category.Other, b2.Category)
	assert.False(t, env.photos.Exists(b2.ID))
}

func TestApplyPlace_KeepsCategoryAndNotes(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	b := &entities.Bookmark{PlaceID: strPtr("ChIJ123"), Name: "Old", Category: category.Shopping, Notes: "mine"}
	_, err := env.repo.Add(ctx, b)
	require.NoError(t, err)

	updated, err := env.repo.ApplyPlace(ctx, b.ID, &places.Place{
		ID: "ChIJ123", Name: "New", Address: "2 Main St", Latitude: 1, Longitude: 2, Types: []string{"cafe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, category.Shopping, updated.Category)
	assert.Equal(t, "mine", updated.Notes)
	assert.Equal(t, 1.0, updated.Latitude)
}

func TestPhotoOperations_RequireBookmark(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.repo.SetPhoto(ctx, 42, testImage()), ErrNotFound)
	assert.ErrorIs(t, env.repo.DeletePhoto(ctx, 42), ErrNotFound)
	_, _, err := env.repo.PhotoPath(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, env.photos.Exists(42))

	b := &entities.Bookmark{Name: "A"}
	_, err = env.repo.Add(ctx, b)
	require.NoError(t, err)

	_, exists, err := env.repo.PhotoPath(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, env.repo.SetPhoto(ctx, b.ID, testImage()))
	require.NoError(t, env.repo.DeletePhoto(ctx, b.ID))
	assert.False(t, env.photos.Exists(b.ID))
}

func TestPruneOrphanPhotos(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	kept := &entities.Bookmark{Name: "kept"}
	_, err := env.repo.Add(ctx, kept)
	require.NoError(t, err)
	require.NoError(t, env.repo.SetPhoto(ctx, kept.ID, testImage()))

	// Orphans written straight to the photo store.
	require.NoError(t, env.photos.Save(50, testImage()))
	require.NoError(t, env.photos.Save(51, testImage()))

	removed, err := env.repo.PruneOrphanPhotos(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	ids, err := env.photos.IDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{kept.ID}, ids)

	removed, err = env.repo.PruneOrphanPhotos(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSearchAndFilter(t *testing.T) {
	env := setupRepository(t)
	ctx := context.Background()

	_, err := env.repo.Add(ctx, &entities.Bookmark{Name: "Cafe Luna", Category: category.Restaurant})
	require.NoError(t, err)
	_, err = env.repo.Add(ctx, &entities.Bookmark{Name: "Shell", Category: category.Gas})
	require.NoError(t, err)

	found, err := env.repo.Search(ctx, "luna")
	require.NoError(t, err)
	require.Len(t, found, 1)

	gas, err := env.repo.ListByCategory(ctx, category.Gas)
	require.NoError(t, err)
	require.Len(t, gas, 1)

	_, err = env.repo.ListByCategory(ctx, "Cafe")
	assert.True(t, errors.Is(err, ErrInvalidCategory))

	count, err := env.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
