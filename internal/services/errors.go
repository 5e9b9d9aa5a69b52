package services

import (
	"errors"

	"github.com/mrlokans/placebook/internal/database/bookmarks"
	"github.com/mrlokans/placebook/internal/photos"
)

var (
	ErrNotFound           = bookmarks.ErrNotFound
	ErrStorageUnavailable = bookmarks.ErrStorageUnavailable
	ErrAlreadyPersisted   = bookmarks.ErrAlreadyPersisted
	ErrAssetIO            = photos.ErrAssetIO

	ErrInvalidCategory = errors.New("invalid category")
)
