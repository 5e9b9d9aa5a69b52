package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/tasks"
)

// PlacesController looks places up and turns them into bookmarks.
type PlacesController struct {
	places    PlaceLookup
	bookmarks PlaceBookmarker
	queue     TaskQueue
	log       logger.Logger

	photoMaxWidth  int
	photoMaxHeight int
}

func NewPlacesController(places PlaceLookup, bookmarks PlaceBookmarker, queue TaskQueue, log logger.Logger) *PlacesController {
	return &PlacesController{places: places, bookmarks: bookmarks, queue: queue, log: log}
}

// SetPhotoSize bounds the photos requested from the places service.
func (pc *PlacesController) SetPhotoSize(maxWidth, maxHeight int) {
	pc.photoMaxWidth = maxWidth
	pc.photoMaxHeight = maxHeight
}

// Details handles GET /api/places/:placeId and adds the category the place
// would be bookmarked under.
func (pc *PlacesController) Details(c *gin.Context) {
	placeID := strings.TrimSpace(c.Param("placeId"))
	place, err := pc.places.Details(c.Request.Context(), placeID)
	if err != nil {
		respondServiceError(c, pc.log, err, "place details")
		return
	}

	cat := pc.bookmarks.CategoryFor(place.PrimaryType())
	icon, _ := pc.bookmarks.IconFor(cat)
	c.JSON(http.StatusOK, gin.H{
		"place":    place,
		"category": cat,
		"icon":     icon,
	})
}

// Bookmark handles POST /api/places/:placeId/bookmark. The place photo is
// downloaded by a background task when the queue is enabled.
func (pc *PlacesController) Bookmark(c *gin.Context) {
	ctx := c.Request.Context()
	placeID := strings.TrimSpace(c.Param("placeId"))

	place, err := pc.places.Details(ctx, placeID)
	if err != nil {
		respondServiceError(c, pc.log, err, "place details")
		return
	}

	b, err := pc.bookmarks.AddFromPlace(ctx, place, nil)
	if err != nil {
		respondServiceError(c, pc.log, err, "bookmark place")
		return
	}

	resp := gin.H{"bookmark": newBookmarkView(b, pc.bookmarks)}
	if _, hasPhoto := place.FirstPhoto(); hasPhoto && pc.queue != nil {
		ids, err := pc.queue.Enqueue(ctx, tasks.FetchPlacePhotoTask{
			BookmarkID: b.ID,
			PlaceID:    place.ID,
			MaxWidth:   pc.photoMaxWidth,
			MaxHeight:  pc.photoMaxHeight,
		})
		if err != nil {
			pc.log.Warn("failed to enqueue photo fetch", logger.Uint("bookmark_id", b.ID), logger.Error(err))
		} else if len(ids) > 0 {
			resp["photo_task_id"] = ids[0]
		}
	}

	c.JSON(http.StatusCreated, resp)
}
