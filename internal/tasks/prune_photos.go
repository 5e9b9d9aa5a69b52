package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/placebook/internal/logger"
)

// PrunePhotosTask removes photo files left behind by deleted bookmarks.
type PrunePhotosTask struct{}

func (t PrunePhotosTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_photos",
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
		},
	}
}

// PrunePhotosProcessor creates the processor for PrunePhotosTask.
func PrunePhotosProcessor(bookmarks Bookmarks, log logger.Logger) backlite.QueueProcessor[PrunePhotosTask] {
	return func(ctx context.Context, _ PrunePhotosTask) error {
		if bookmarks == nil {
			return fmt.Errorf("bookmark repository not configured")
		}
		removed, err := bookmarks.PruneOrphanPhotos(ctx)
		if err != nil {
			return fmt.Errorf("prune photos: %w", err)
		}
		log.Info("photo sweep finished", logger.Int("removed", removed))
		return nil
	}
}

func NewPrunePhotosQueue(bookmarks Bookmarks, log logger.Logger) backlite.Queue {
	return backlite.NewQueue(PrunePhotosProcessor(bookmarks, orNop(log)))
}
