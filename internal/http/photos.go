package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/services"
)

// maxUploadBytes limits photo uploads.
const maxUploadBytes = 20 << 20

// PhotosController serves the single photo attached to each bookmark.
type PhotosController struct {
	photos PhotoService
	log    logger.Logger
}

func NewPhotosController(photos PhotoService, log logger.Logger) *PhotosController {
	return &PhotosController{photos: photos, log: log}
}

// Get handles GET /api/bookmarks/:id/photo
func (pc *PhotosController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	path, exists, err := pc.photos.PhotoPath(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, pc.log, err, "photo path")
		return
	}
	if !exists {
		respondNotFound(c, "photo")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(path)
}

// Put handles PUT /api/bookmarks/:id/photo. The image comes either as the
// multipart field "photo" or as the raw request body.
func (pc *PhotosController) Put(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var src io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("photo")
		if err != nil {
			respondBadRequest(c, "photo file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondBadRequest(c, "failed to read upload")
			return
		}
		defer f.Close()
		src = f
	} else {
		if c.Request.ContentLength == 0 {
			respondBadRequest(c, "request body is empty")
			return
		}
		src = c.Request.Body
	}

	err := pc.photos.SetPhotoEncoded(c.Request.Context(), id, src)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SuccessResponse{Message: "photo saved"})
	case errors.Is(err, services.ErrAssetIO):
		pc.log.Warn("photo upload rejected", logger.Uint("bookmark_id", id), logger.Error(err))
		respondError(c, http.StatusUnprocessableEntity, "photo could not be stored")
	default:
		respondServiceError(c, pc.log, err, "save photo")
	}
}

// Delete handles DELETE /api/bookmarks/:id/photo
func (pc *PhotosController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := pc.photos.DeletePhoto(c.Request.Context(), id); err != nil {
		respondServiceError(c, pc.log, err, "delete photo")
		return
	}
	c.Status(http.StatusNoContent)
}
