package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StreamAll handles GET /api/bookmarks/stream. It sends the full list as a
// server-sent event now and after every change, until the client leaves.
func (bc *BookmarksController) StreamAll(c *gin.Context) {
	ctx := c.Request.Context()
	updates, err := bc.bookmarks.ObserveAll(ctx)
	if err != nil {
		respondServiceError(c, bc.log, err, "observe bookmarks")
		return
	}

	setSSEHeaders(c)
	c.Stream(func(w io.Writer) bool {
		select {
		case list, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("bookmarks", newBookmarkViews(list, bc.bookmarks))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// Stream handles GET /api/bookmarks/:id/stream. A "removed" event is sent
// while the bookmark does not exist.
func (bc *BookmarksController) Stream(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	updates, err := bc.bookmarks.Observe(ctx, id)
	if err != nil {
		respondServiceError(c, bc.log, err, "observe bookmark")
		return
	}

	setSSEHeaders(c)
	c.Stream(func(w io.Writer) bool {
		select {
		case b, ok := <-updates:
			if !ok {
				return false
			}
			if b == nil {
				c.SSEvent("removed", gin.H{"id": id})
			} else {
				c.SSEvent("bookmark", newBookmarkView(b, bc.bookmarks))
			}
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func setSSEHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}
