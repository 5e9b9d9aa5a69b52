package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/places"
	"github.com/mrlokans/placebook/internal/services"
)

// FetchPlacePhotoTask downloads the first photo of a place and stores it as
// the photo of a bookmark.
type FetchPlacePhotoTask struct {
	BookmarkID uint   `json:"bookmark_id"`
	PlaceID    string `json:"place_id"`
	MaxWidth   int    `json:"max_width,omitempty"`
	MaxHeight  int    `json:"max_height,omitempty"`
}

func (t FetchPlacePhotoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "fetch_place_photo",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FetchPlacePhotoProcessor creates the processor for FetchPlacePhotoTask.
// A bookmark deleted in the meantime or a place without photos completes
// the task without retrying.
func FetchPlacePhotoProcessor(bookmarks Bookmarks, source PlaceSource, log logger.Logger) backlite.QueueProcessor[FetchPlacePhotoTask] {
	return func(ctx context.Context, task FetchPlacePhotoTask) error {
		if bookmarks == nil || source == nil {
			return fmt.Errorf("photo fetch dependencies not configured")
		}
		log := log.With(logger.Uint("bookmark_id", task.BookmarkID), logger.String("place_id", task.PlaceID))

		place, err := source.Details(ctx, task.PlaceID)
		if errors.Is(err, places.ErrPlaceNotFound) {
			log.Warn("place no longer exists, skipping photo")
			return nil
		}
		if err != nil {
			return fmt.Errorf("place details: %w", err)
		}

		photo, ok := place.FirstPhoto()
		if !ok {
			log.Debug("place has no photos")
			return nil
		}

		url := source.PhotoURL(photo.Reference, task.MaxWidth, task.MaxHeight)
		err = bookmarks.FetchPhoto(ctx, task.BookmarkID, url)
		if errors.Is(err, services.ErrNotFound) {
			log.Debug("bookmark removed before its photo arrived")
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch photo: %w", err)
		}

		log.Info("stored place photo")
		return nil
	}
}

func NewFetchPlacePhotoQueue(bookmarks Bookmarks, source PlaceSource, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(FetchPlacePhotoProcessor(bookmarks, source, orNop(log)))
}

func orNop(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NewNop()
	}
	return log
}
