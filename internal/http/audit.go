package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

type AuditController struct {
	audit AuditLog
}

func NewAuditController(audit AuditLog) *AuditController {
	return &AuditController{audit: audit}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?type=&store_id=&limit=&offset=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset := parseLimitOffset(c, 25, 100)
	storeID := c.Query("store_id")
	eventType := c.Query("type")

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.audit.GetEventsByType(entities.AuditEventType(eventType), storeID, limit, offset)
	} else {
		events, total, err = ac.audit.GetEvents(storeID, limit, offset)
	}

	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
