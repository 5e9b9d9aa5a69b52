package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/services"
)

// BookmarksController serves CRUD, search and sharing for bookmarks.
type BookmarksController struct {
	bookmarks BookmarkService
	log       logger.Logger
}

func NewBookmarksController(bookmarks BookmarkService, log logger.Logger) *BookmarksController {
	return &BookmarksController{bookmarks: bookmarks, log: log}
}

// BookmarkView is a bookmark as the API returns it.
type BookmarkView struct {
	entities.Bookmark
	Icon     category.Icon `json:"icon"`
	PhotoURL string        `json:"photo_url,omitempty"`
}

func newBookmarkView(b *entities.Bookmark, icons CategoryResolver) BookmarkView {
	icon, _ := icons.IconFor(b.Category)
	view := BookmarkView{Bookmark: *b, Icon: icon}
	if b.Persisted() {
		view.PhotoURL = "/api/bookmarks/" + uintString(b.ID) + "/photo"
	}
	return view
}

func newBookmarkViews(list []entities.Bookmark, icons CategoryResolver) []BookmarkView {
	views := make([]BookmarkView, len(list))
	for i := range list {
		views[i] = newBookmarkView(&list[i], icons)
	}
	return views
}

// bookmarkRequest is the body of create and update requests. Fields left
// out of the body keep their current value.
type bookmarkRequest struct {
	PlaceID   *string            `json:"place_id"`
	Name      *string            `json:"name" binding:"omitempty,max=512"`
	Phone     *string            `json:"phone" binding:"omitempty,max=64"`
	Address   *string            `json:"address" binding:"omitempty,max=1024"`
	Notes     *string            `json:"notes"`
	Category  *category.Category `json:"category"`
	Latitude  *float64           `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64           `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

func (r *bookmarkRequest) apply(b *entities.Bookmark) {
	if r.PlaceID != nil {
		if *r.PlaceID == "" {
			b.PlaceID = nil
		} else {
			id := *r.PlaceID
			b.PlaceID = &id
		}
	}
	setTrimmed(&b.Name, r.Name)
	setTrimmed(&b.Phone, r.Phone)
	setTrimmed(&b.Address, r.Address)
	if r.Notes != nil {
		b.Notes = *r.Notes
	}
	if r.Category != nil {
		b.Category = *r.Category
	}
	if r.Latitude != nil {
		b.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		b.Longitude = *r.Longitude
	}
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// New handles GET /api/bookmarks/new and returns an unsaved bookmark with
// default values.
func (bc *BookmarksController) New(c *gin.Context) {
	c.JSON(http.StatusOK, newBookmarkView(bc.bookmarks.CreateBlank(), bc.bookmarks))
}

// List handles GET /api/bookmarks?q=&category=
func (bc *BookmarksController) List(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))
	catName := c.Query("category")

	var cat category.Category
	if catName != "" {
		parsed, ok := category.Parse(catName)
		if !ok {
			respondBadRequest(c, "unknown category: "+catName)
			return
		}
		cat = parsed
	}

	var list []entities.Bookmark
	var err error
	switch {
	case query != "":
		list, err = bc.bookmarks.Search(ctx, query)
		if err == nil && cat != "" {
			list = filterByCategory(list, cat)
		}
	case cat != "":
		list, err = bc.bookmarks.ListByCategory(ctx, cat)
	default:
		list, err = bc.bookmarks.ListAll(ctx)
	}
	if err != nil {
		respondServiceError(c, bc.log, err, "list bookmarks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarks": newBookmarkViews(list, bc.bookmarks),
		"count":     len(list),
	})
}

func filterByCategory(list []entities.Bookmark, cat category.Category) []entities.Bookmark {
	out := list[:0]
	for _, b := range list {
		if b.Category == cat {
			out = append(out, b)
		}
	}
	return out
}

func (bc *BookmarksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := bc.bookmarks.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, bc.log, err, "get bookmark")
		return
	}
	c.JSON(http.StatusOK, newBookmarkView(b, bc.bookmarks))
}

func (bc *BookmarksController) Create(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	b := bc.bookmarks.CreateBlank()
	req.apply(b)

	if _, err := bc.bookmarks.Add(c.Request.Context(), b); err != nil {
		respondServiceError(c, bc.log, err, "create bookmark")
		return
	}
	c.JSON(http.StatusCreated, newBookmarkView(b, bc.bookmarks))
}

func (bc *BookmarksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	b, err := bc.bookmarks.Get(ctx, id)
	if err != nil {
		respondServiceError(c, bc.log, err, "load bookmark")
		return
	}
	req.apply(b)

	if err := bc.bookmarks.Update(ctx, b); err != nil {
		respondServiceError(c, bc.log, err, "update bookmark")
		return
	}
	c.JSON(http.StatusOK, newBookmarkView(b, bc.bookmarks))
}

// Delete removes the bookmark and its photo. When only the photo could not
// be deleted the bookmark is gone, so the response is 200 with a warning.
func (bc *BookmarksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	b, err := bc.bookmarks.Get(ctx, id)
	if err != nil {
		respondServiceError(c, bc.log, err, "load bookmark")
		return
	}

	err = bc.bookmarks.Remove(ctx, b)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SuccessResponse{Message: "bookmark deleted"})
	case errors.Is(err, services.ErrAssetIO) && !errors.Is(err, services.ErrStorageUnavailable):
		bc.log.Warn("bookmark deleted with photo left behind", logger.Uint("bookmark_id", id), logger.Error(err))
		c.JSON(http.StatusOK, gin.H{"message": "bookmark deleted", "warning": "photo could not be deleted"})
	default:
		respondServiceError(c, bc.log, err, "delete bookmark")
	}
}

// Share handles GET /api/bookmarks/:id/share
func (bc *BookmarksController) Share(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := bc.bookmarks.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, bc.log, err, "share bookmark")
		return
	}
	subject, text, link := bc.bookmarks.ShareText(b)
	c.JSON(http.StatusOK, gin.H{"subject": subject, "text": text, "url": link})
}

// Stats handles GET /api/bookmarks/stats
func (bc *BookmarksController) Stats(c *gin.Context) {
	count, err := bc.bookmarks.Count(c.Request.Context())
	if err != nil {
		respondServiceError(c, bc.log, err, "count bookmarks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": count})
}
