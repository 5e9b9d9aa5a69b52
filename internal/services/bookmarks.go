package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/places"
)

// BookmarkRepository is the single entry point for bookmark operations. It
// composes the record store, the photo store and the category classifier.
type BookmarkRepository struct {
	store      RecordStore
	photos     PhotoStore
	classifier *category.Classifier
	auditor    Auditor
	log        logger.Logger
}

func NewBookmarkRepository(store RecordStore, photos PhotoStore, classifier *category.Classifier, log logger.Logger) *BookmarkRepository {
	if classifier == nil {
		classifier = category.NewClassifier()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BookmarkRepository{
		store:      store,
		photos:     photos,
		classifier: classifier,
		auditor:    nopAuditor{},
		log:        log,
	}
}

// SetAuditor enables audit records for every mutation.
func (r *BookmarkRepository) SetAuditor(a Auditor) {
	if a != nil {
		r.auditor = a
	}
}

// CreateBlank returns an unpersisted bookmark with default values.
func (r *BookmarkRepository) CreateBlank() *entities.Bookmark {
	return entities.NewBookmark()
}

// Add persists b and sets its id.
func (r *BookmarkRepository) Add(ctx context.Context, b *entities.Bookmark) (uint, error) {
	if err := normalizeCategory(b); err != nil {
		return 0, err
	}
	id, err := r.store.Insert(ctx, b)
	if err != nil {
		return 0, err
	}
	r.auditor.Record(ctx, entities.AuditActionCreate, id, "Created bookmark "+b.Name, nil)
	return id, nil
}

// Update saves changes to a persisted bookmark. An empty category becomes
// Other; unknown categories fail with ErrInvalidCategory.
func (r *BookmarkRepository) Update(ctx context.Context, b *entities.Bookmark) error {
	if err := normalizeCategory(b); err != nil {
		return err
	}
	if err := r.store.Update(ctx, b); err != nil {
		return err
	}
	r.auditor.Record(ctx, entities.AuditActionUpdate, b.ID, "Updated bookmark "+b.Name, nil)
	return nil
}

// Get loads one bookmark; ErrNotFound when the id has no row.
func (r *BookmarkRepository) Get(ctx context.Context, id uint) (*entities.Bookmark, error) {
	return r.store.Get(ctx, id)
}

// Observe emits the bookmark now and after every change, and nil once it
// is deleted. The channel closes when ctx is done.
func (r *BookmarkRepository) Observe(ctx context.Context, id uint) (<-chan *entities.Bookmark, error) {
	return r.store.Observe(ctx, id)
}

// ListAll returns every bookmark in id order.
func (r *BookmarkRepository) ListAll(ctx context.Context) ([]entities.Bookmark, error) {
	return r.store.ListAll(ctx)
}

// ObserveAll emits the full list now and after every change.
func (r *BookmarkRepository) ObserveAll(ctx context.Context) (<-chan []entities.Bookmark, error) {
	return r.store.ObserveAll(ctx)
}

// Search matches query case-insensitively against name, address and notes.
func (r *BookmarkRepository) Search(ctx context.Context, query string) ([]entities.Bookmark, error) {
	return r.store.Search(ctx, query)
}

// ListByCategory returns the bookmarks of one category.
func (r *BookmarkRepository) ListByCategory(ctx context.Context, cat category.Category) ([]entities.Bookmark, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, cat)
	}
	return r.store.ListByCategory(ctx, cat)
}

// Count returns the number of stored bookmarks.
func (r *BookmarkRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

// Remove deletes the photo, then the record. Storage errors are returned as
// they are. When only the photo could not be deleted the record is gone and
// the returned error matches ErrAssetIO.
func (r *BookmarkRepository) Remove(ctx context.Context, b *entities.Bookmark) error {
	photoErr := r.photos.Delete(b.ID)
	if photoErr != nil {
		r.log.Warn("failed to delete bookmark photo",
			logger.Uint("bookmark_id", b.ID),
			logger.Error(photoErr))
		r.auditor.Record(ctx, entities.AuditActionPhotoDelete, b.ID, "Deleting photo of "+b.Name, photoErr)
	}

	if err := r.store.Delete(ctx, b); err != nil {
		return err
	}
	r.auditor.Record(ctx, entities.AuditActionDelete, b.ID, "Deleted bookmark "+b.Name, nil)

	if photoErr != nil {
		return fmt.Errorf("bookmark %d deleted, photo left behind: %w", b.ID, photoErr)
	}
	return nil
}

// CategoryFor classifies a place-type code. Codes without a mapping fall
// back to Other; the fallback is logged at debug level.
func (r *BookmarkRepository) CategoryFor(code category.PlaceType) category.Category {
	if !r.classifier.Mapped(code) {
		r.log.Debug("place type has no category, using default",
			logger.Int("place_type", int(code)),
			logger.String("category", string(category.Default)))
	}
	return r.classifier.Classify(code)
}

// CategoryForName classifies a place-type name such as "gas_station".
func (r *BookmarkRepository) CategoryForName(name string) category.Category {
	code, _ := category.ParsePlaceType(name)
	if !r.classifier.Mapped(code) {
		r.log.Debug("place type has no category, using default",
			logger.String("place_type", name),
			logger.String("category", string(category.Default)))
	}
	return r.classifier.Classify(code)
}

// IconFor returns the icon shown for cat.
func (r *BookmarkRepository) IconFor(cat category.Category) (category.Icon, bool) {
	return r.classifier.IconFor(cat)
}

// Categories lists the five categories in name order.
func (r *BookmarkRepository) Categories() []category.Category {
	return r.classifier.Categories()
}

// AddFromPlace creates a bookmark from place details. When img is given it
// becomes the bookmark photo; a photo failure is returned together with the
// persisted bookmark.
func (r *BookmarkRepository) AddFromPlace(ctx context.Context, place *places.Place, img image.Image) (*entities.Bookmark, error) {
	b := BookmarkFromPlace(place, r.CategoryFor(place.PrimaryType()))
	if _, err := r.Add(ctx, b); err != nil {
		return nil, err
	}
	if img != nil {
		if err := r.SetPhoto(ctx, b.ID, img); err != nil {
			return b, err
		}
	}
	return b, nil
}

// BookmarkFromPlace copies place details into a new unpersisted bookmark.
func BookmarkFromPlace(place *places.Place, cat category.Category) *entities.Bookmark {
	b := entities.NewBookmark()
	if place.ID != "" {
		id := place.ID
		b.PlaceID = &id
	}
	b.Name = place.Name
	b.Address = place.Address
	b.Phone = place.Phone
	b.Latitude = place.Latitude
	b.Longitude = place.Longitude
	b.Category = cat
	return b
}

// ApplyPlace refreshes name, address, phone and coordinates of bookmark id
// from fresh place details. Category and notes are kept.
func (r *BookmarkRepository) ApplyPlace(ctx context.Context, id uint, place *places.Place) (*entities.Bookmark, error) {
	b, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Name = place.Name
	b.Address = place.Address
	b.Phone = place.Phone
	b.Latitude = place.Latitude
	b.Longitude = place.Longitude

	err = r.store.Update(ctx, b)
	r.auditor.Record(ctx, entities.AuditActionRefresh, id, "Refreshed from place "+place.ID, err)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SetPhoto replaces the photo of an existing bookmark.
func (r *BookmarkRepository) SetPhoto(ctx context.Context, id uint, img image.Image) error {
	return r.savePhoto(ctx, id, func() error { return r.photos.Save(id, img) })
}

// SetPhotoEncoded decodes an uploaded image and stores it as the photo.
func (r *BookmarkRepository) SetPhotoEncoded(ctx context.Context, id uint, src io.Reader) error {
	return r.savePhoto(ctx, id, func() error { return r.photos.SaveEncoded(id, src) })
}

// FetchPhoto downloads url and stores it as the photo.
func (r *BookmarkRepository) FetchPhoto(ctx context.Context, id uint, url string) error {
	return r.savePhoto(ctx, id, func() error { return r.photos.Fetch(ctx, id, url) })
}

func (r *BookmarkRepository) savePhoto(ctx context.Context, id uint, save func() error) error {
	if err := r.requireBookmark(ctx, id); err != nil {
		return err
	}
	err := save()
	r.auditor.Record(ctx, entities.AuditActionPhotoSave, id, "Saved photo", err)
	return err
}

// PhotoPath returns where the photo of bookmark id is stored and whether the
// file exists.
func (r *BookmarkRepository) PhotoPath(ctx context.Context, id uint) (string, bool, error) {
	if err := r.requireBookmark(ctx, id); err != nil {
		return "", false, err
	}
	return r.photos.Path(id), r.photos.Exists(id), nil
}

// DeletePhoto removes the photo of an existing bookmark. A bookmark
// without a photo is not an error.
func (r *BookmarkRepository) DeletePhoto(ctx context.Context, id uint) error {
	if err := r.requireBookmark(ctx, id); err != nil {
		return err
	}
	err := r.photos.Delete(id)
	r.auditor.Record(ctx, entities.AuditActionPhotoDelete, id, "Deleted photo", err)
	return err
}

// PruneOrphanPhotos deletes photo files that no bookmark refers to and
// returns how many were removed.
func (r *BookmarkRepository) PruneOrphanPhotos(ctx context.Context) (int, error) {
	photoIDs, err := r.photos.IDs()
	if err != nil {
		return 0, err
	}
	if len(photoIDs) == 0 {
		return 0, nil
	}

	rowIDs, err := r.store.IDs(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[uint]struct{}, len(rowIDs))
	for _, id := range rowIDs {
		known[id] = struct{}{}
	}

	var removed int
	var errs []error
	for _, id := range photoIDs {
		if _, ok := known[id]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.photos.Delete(id); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	err = errors.Join(errs...)
	r.auditor.Record(ctx, entities.AuditActionPhotoPrune, 0, fmt.Sprintf("Pruned %d orphan photos", removed), err)
	if removed > 0 {
		r.log.Info("pruned orphan photos", logger.Int("count", removed))
	}
	return removed, err
}

func (r *BookmarkRepository) requireBookmark(ctx context.Context, id uint) error {
	ok, err := r.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func normalizeCategory(b *entities.Bookmark) error {
	if b.Category == "" {
		b.Category = category.Default
		return nil
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, b.Category)
	}
	return nil
}
