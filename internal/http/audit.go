package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
)

type AuditController struct {
	audit AuditReader
	log   logger.Logger
}

func NewAuditController(audit AuditReader, log logger.Logger) *AuditController {
	return &AuditController{audit: audit, log: log}
}

// GetAuditEvents handles GET /api/audit?limit=&offset=&bookmark_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset := parsePagination(c, 25, 100)
	ctx := c.Request.Context()

	var events []entities.AuditEvent
	var total int64
	var err error

	if raw := c.Query("bookmark_id"); raw != "" {
		id, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			respondBadRequest(c, "invalid bookmark_id")
			return
		}
		events, total, err = ac.audit.ForBookmark(ctx, uint(id), limit, offset)
	} else {
		events, total, err = ac.audit.Recent(ctx, limit, offset)
	}
	if err != nil {
		respondInternalError(c, ac.log, err, "audit events")
		return
	}

	c.JSON(http.StatusOK, paginated(events, total, limit, offset))
}
