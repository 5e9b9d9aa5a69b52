// Package bookmarks is the durable record store for bookmarks.
//
// Every committed write notifies the observers registered with Observe and
// ObserveAll, which then reload the current state from the database:
//
//	repo := bookmarks.NewRepository(db)
//	updates, err := repo.Observe(ctx, id)
//	for b := range updates { ... }
package bookmarks

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
)

type Repository struct {
	db  *gorm.DB
	hub *hub
	log logger.Logger
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:  db,
		hub: newHub(),
		log: logger.NewNop(),
	}
}

// SetLogger replaces the default no-op logger.
func (r *Repository) SetLogger(l logger.Logger) {
	if l != nil {
		r.log = l
	}
}

// Insert persists a new bookmark and returns its id, which is also set on b.
func (r *Repository) Insert(ctx context.Context, b *entities.Bookmark) (uint, error) {
	if b.ID != 0 {
		return 0, ErrAlreadyPersisted
	}
	if b.Category == "" {
		b.Category = category.Default
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		b.ID = 0
		return 0, classify("insert", err)
	}
	r.hub.notify(b.ID)
	return b.ID, nil
}

// Update overwrites every mutable column of the row with b.ID.
func (r *Repository) Update(ctx context.Context, b *entities.Bookmark) error {
	if b.ID == 0 {
		return ErrNotFound
	}
	if b.Category == "" {
		b.Category = category.Default
	}
	result := r.db.WithContext(ctx).
		Model(&entities.Bookmark{}).
		Where("id = ?", b.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(b)
	if result.Error != nil {
		return classify("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.hub.notify(b.ID)
	return nil
}

func (r *Repository) Get(ctx context.Context, id uint) (*entities.Bookmark, error) {
	var b entities.Bookmark
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, classify("get", err)
	}
	return &b, nil
}

func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Bookmark{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, classify("exists", err)
	}
	return count > 0, nil
}

// Delete removes the row with b.ID. Photo files are not touched here.
func (r *Repository) Delete(ctx context.Context, b *entities.Bookmark) error {
	if b.ID == 0 {
		return ErrNotFound
	}
	result := r.db.WithContext(ctx).Delete(&entities.Bookmark{}, b.ID)
	if result.Error != nil {
		return classify("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.hub.notify(b.ID)
	return nil
}

// ListAll returns every bookmark ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Bookmark, error) {
	var list []entities.Bookmark
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, classify("list", err)
	}
	return list, nil
}

// Search matches name, address and notes case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]entities.Bookmark, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.ListAll(ctx)
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var list []entities.Bookmark
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(address) LIKE ? ESCAPE '\\' OR LOWER(notes) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, classify("search", err)
	}
	return list, nil
}

func (r *Repository) ListByCategory(ctx context.Context, cat category.Category) ([]entities.Bookmark, error) {
	var list []entities.Bookmark
	err := r.db.WithContext(ctx).Where("category = ?", cat).Order("id ASC").Find(&list).Error
	if err != nil {
		return nil, classify("list by category", err)
	}
	return list, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Bookmark{}).Count(&count).Error; err != nil {
		return 0, classify("count", err)
	}
	return count, nil
}

// IDs returns every persisted id. Used by the orphan-photo sweep.
func (r *Repository) IDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&entities.Bookmark{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, classify("ids", err)
	}
	return ids, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
