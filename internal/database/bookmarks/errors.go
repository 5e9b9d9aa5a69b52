package bookmarks

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("bookmark not found")
	ErrStorageUnavailable = errors.New("bookmark storage unavailable")
	ErrAlreadyPersisted   = errors.New("bookmark already has an id")
)

// StorageError reports a failed database operation. It matches both
// ErrStorageUnavailable and the underlying driver error with errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("bookmarks %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// classify turns a gorm error into ErrNotFound or a *StorageError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("bookmarks %s: %w", op, err)
	}
	return &StorageError{Op: op, Err: err}
}
