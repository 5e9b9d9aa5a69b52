package tasks

import "github.com/mrlokans/placebook/internal/logger"

// Dependencies are the services the PlaceBook queues run against.
type Dependencies struct {
	Bookmarks Bookmarks
	Places    PlaceSource
	Audit     AuditEventCleaner
	Logger    logger.Logger
}

// RegisterAll registers every PlaceBook queue. Queues whose dependency is
// missing are skipped.
func (c *Client) RegisterAll(deps Dependencies) {
	log := orNop(deps.Logger)
	if deps.Bookmarks != nil {
		c.Register(NewPrunePhotosQueue(deps.Bookmarks, log.With(logger.String("queue", "prune_photos"))))
		if deps.Places != nil {
			c.Register(
				NewFetchPlacePhotoQueue(deps.Bookmarks, deps.Places, log.With(logger.String("queue", "fetch_place_photo"))),
				NewRefreshPlaceQueue(deps.Bookmarks, deps.Places, log.With(logger.String("queue", "refresh_place"))),
			)
		}
	}
	if deps.Audit != nil {
		c.Register(NewCleanupAuditEventsQueue(deps.Audit, log.With(logger.String("queue", "cleanup_audit_events"))))
	}
}
