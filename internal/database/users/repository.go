// Package users provides database operations for local-auth accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByLogin(ctx, "alice")
package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/placebook/internal/entities"
)

var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByLogin looks a user up by username or email.
func (r *Repository) GetByLogin(ctx context.Context, login string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) GetByTokenHash(ctx context.Context, hash string) (*entities.User, error) {
	if hash == "" {
		return nil, ErrNotFound
	}
	var user entities.User
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Exists reports whether the username or the email is already taken.
func (r *Repository) Exists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}

// SetToken stores a token hash; an empty hash revokes the token.
func (r *Repository) SetToken(ctx context.Context, id uint, hash string) error {
	var createdAt *time.Time
	if hash != "" {
		now := time.Now()
		createdAt = &now
	}
	return r.updates(ctx, id, map[string]any{
		"token_hash":       hash,
		"token_created_at": createdAt,
	})
}

func (r *Repository) SetPasswordHash(ctx context.Context, id uint, hash string) error {
	return r.updates(ctx, id, map[string]any{"password_hash": hash})
}

// RecordLogin resets the lockout counters after a successful login.
func (r *Repository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updates(ctx, id, map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	})
}

// RecordFailedLogin stores the failed-attempt counter and an optional lock.
func (r *Repository) RecordFailedLogin(ctx context.Context, id uint, failed int, lockedUntil *time.Time) error {
	return r.updates(ctx, id, map[string]any{
		"failed_login_count": failed,
		"locked_until":       lockedUntil,
	})
}

func (r *Repository) updates(ctx context.Context, id uint, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
