package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dbaudit "github.com/annuaire-qc/directory/internal/database/audit"
	"github.com/annuaire-qc/directory/internal/entities"
)

type AuditController struct {
	audit AuditLogger
}

func NewAuditController(auditLogger AuditLogger) *AuditController {
	return &AuditController{audit: auditLogger}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// GET /api/audit?type=import&limit=25&offset=0
// GET /api/audit?entity=business&id=7 returns the full history of one record.
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	if entityType := c.Query("entity"); entityType != "" {
		ac.getEntityEvents(c, entityType)
		return
	}

	limit, offset := parsePagination(c, 25, 100)
	eventType := entities.AuditEventType(c.Query("type"))

	events, total, err := ac.audit.GetEvents(eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	respondPage(c, events, total, limit, offset)
}

func (ac *AuditController) getEntityEvents(c *gin.Context, entityType string) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "entity filter requires a numeric id")
		return
	}

	events, err := ac.audit.GetEventsForEntity(entityType, uint(id))
	if err != nil {
		respondInternalError(c, err, "load entity audit events")
		return
	}
	respondPage(c, events, int64(len(events)), len(events), 0)
}

// GetAuditEvent handles GET /api/audit/:id
func (ac *AuditController) GetAuditEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := ac.audit.GetEventByID(id)
	if errors.Is(err, dbaudit.ErrEventNotFound) {
		respondNotFound(c, "audit event")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load audit event")
		return
	}
	c.JSON(http.StatusOK, event)
}
