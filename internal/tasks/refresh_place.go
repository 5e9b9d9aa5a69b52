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

// RefreshPlaceTask re-reads the place a bookmark was created from and
// updates the bookmark's name, address, phone and coordinates.
type RefreshPlaceTask struct {
	BookmarkID uint `json:"bookmark_id"`
}

func (t RefreshPlaceTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_place",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshPlaceProcessor creates the processor for RefreshPlaceTask.
func RefreshPlaceProcessor(bookmarks Bookmarks, source PlaceSource, log logger.Logger) backlite.QueueProcessor[RefreshPlaceTask] {
	return func(ctx context.Context, task RefreshPlaceTask) error {
		if bookmarks == nil || source == nil {
			return fmt.Errorf("place refresh dependencies not configured")
		}
		log := log.With(logger.Uint("bookmark_id", task.BookmarkID))

		b, err := bookmarks.Get(ctx, task.BookmarkID)
		if errors.Is(err, services.ErrNotFound) {
			log.Debug("bookmark removed before refresh")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load bookmark: %w", err)
		}
		if !b.HasPlace() {
			log.Debug("bookmark has no place to refresh")
			return nil
		}

		place, err := source.Refresh(ctx, *b.PlaceID)
		if errors.Is(err, places.ErrPlaceNotFound) {
			log.Warn("place no longer exists", logger.String("place_id", *b.PlaceID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("refresh place: %w", err)
		}

		if _, err := bookmarks.ApplyPlace(ctx, b.ID, place); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("apply place: %w", err)
		}

		log.Info("refreshed bookmark from place", logger.String("place_id", place.ID))
		return nil
	}
}

func NewRefreshPlaceQueue(bookmarks Bookmarks, source PlaceSource, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(RefreshPlaceProcessor(bookmarks, source, orNop(log)))
}
