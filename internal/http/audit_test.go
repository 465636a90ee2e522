package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annuaire-qc/directory/internal/entities"
)

func TestAuditController_GetAuditEvents(t *testing.T) {
	api := newTestAPI(t, 90)
	api.audit.events = []entities.AuditEvent{
		{ID: 2, EventType: entities.AuditEventImport, Action: "place_import", Status: entities.AuditStatusSuccess},
		{ID: 1, EventType: entities.AuditEventImport, Action: "place_import", Status: entities.AuditStatusFailed},
	}

	w := api.do(t, "GET", "/api/audit", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, "GET", "/api/audit?type=import&limit=500", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	page := decodeJSON[PaginatedResponse](t, w)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 100, page.Limit)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, entities.AuditEventImport, api.audit.lastType)
}

func TestAuditController_Error(t *testing.T) {
	api := newTestAPI(t, 90)
	api.audit.eventsErr = errors.New("db locked")

	w := api.do(t, "GET", "/api/audit", nil, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuditController_EntityHistory(t *testing.T) {
	api := newTestAPI(t, 90)
	id := uint(7)
	other := uint(8)
	api.audit.events = []entities.AuditEvent{
		{ID: 3, EventType: entities.AuditEventRefresh, EntityType: "business", EntityID: &id},
		{ID: 2, EventType: entities.AuditEventRefresh, EntityType: "business", EntityID: &other},
		{ID: 1, EventType: entities.AuditEventConfirm, EntityType: "business", EntityID: &id},
	}

	w := api.do(t, "GET", "/api/audit?entity=business&id=7", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	page := decodeJSON[PaginatedResponse](t, w)
	assert.Equal(t, int64(2), page.Total)
	assert.False(t, page.HasMore)
	assert.Equal(t, "business", api.audit.lastEntity)
	assert.Equal(t, uint(7), api.audit.lastID)

	w = api.do(t, "GET", "/api/audit?entity=business", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(t, "GET", "/api/audit?entity=business&id=abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditController_GetAuditEvent(t *testing.T) {
	api := newTestAPI(t, 90)
	api.audit.events = []entities.AuditEvent{
		{ID: 5, EventType: entities.AuditEventImport, Action: "place_import"},
	}

	w := api.do(t, "GET", "/api/audit/5", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, "GET", "/api/audit/5", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	event := decodeJSON[entities.AuditEvent](t, w)
	assert.Equal(t, "place_import", event.Action)

	w = api.do(t, "GET", "/api/audit/99", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, "GET", "/api/audit/abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
