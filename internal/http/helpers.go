package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/places"
	"github.com/mrlokans/placebook/internal/services"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse is a message with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps one page of results.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs err and sends a 500 without exposing it.
func respondInternalError(c *gin.Context, log logger.Logger, err error, context string) {
	log.Error("internal error",
		logger.String("context", context),
		logger.String("path", c.Request.URL.Path),
		logger.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// respondServiceError maps repository and places errors onto HTTP statuses.
func respondServiceError(c *gin.Context, log logger.Logger, err error, context string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondNotFound(c, "bookmark")
	case errors.Is(err, services.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_category"})
	case errors.Is(err, services.ErrAlreadyPersisted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "already_persisted"})
	case errors.Is(err, services.ErrStorageUnavailable):
		log.Error("storage unavailable", logger.String("context", context), logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable", Code: "storage_unavailable"})
	case errors.Is(err, places.ErrPlaceNotFound):
		respondNotFound(c, "place")
	case errors.Is(err, places.ErrNoAPIKey):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "places service not configured", Code: "places_unconfigured"})
	case errors.Is(err, places.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error(), Code: "rate_limited"})
	case errors.Is(err, places.ErrRequestDenied):
		log.Error("places request denied", logger.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "places service denied the request", Code: "places_denied"})
	default:
		respondInternalError(c, log, err, context)
	}
}

// parseIDParam extracts an unsigned id from the URL or responds with 400.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit and offset with bounds.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginated(data any, total int64, limit, offset int) PaginatedResponse {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+limit) < total,
		TotalPages: pages,
	}
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
