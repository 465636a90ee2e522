package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annuaire-qc/directory/internal/tasks"
)

func TestTasks_RequireAdmin(t *testing.T) {
	api := newTestAPI(t, 90)

	for _, route := range []struct{ method, path string }{
		{"POST", "/api/businesses/1/refresh"},
		{"POST", "/api/businesses/refresh"},
		{"GET", "/api/tasks/task-1"},
		{"GET", "/api/tasks/types"},
		{"POST", "/api/maintenance/run"},
	} {
		w := api.do(t, route.method, route.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
	assert.Empty(t, api.queue.enqueued)
}

func TestTasks_RefreshBusiness(t *testing.T) {
	api := newTestAPI(t, 90)

	w := api.do(t, "POST", "/api/businesses/7/refresh", RefreshRequest{Force: true}, true)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	resp := decodeJSON[SuccessResponse](t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "task-1", data["task_id"])
	assert.Equal(t, "refresh_business", data["type"])
	require.Len(t, api.queue.enqueued, 1)
	assert.Equal(t, tasks.RefreshBusinessTask{BusinessID: 7, Force: true}, api.queue.enqueued[0])

	w = api.do(t, "POST", "/api/businesses/8/refresh", nil, true)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, tasks.RefreshBusinessTask{BusinessID: 8}, api.queue.enqueued[1])

	w = api.do(t, "POST", "/api/businesses/0/refresh", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasks_RefreshAll(t *testing.T) {
	api := newTestAPI(t, 90)

	w := api.do(t, "POST", "/api/businesses/refresh", RefreshAllRequest{Limit: 20}, true)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, tasks.RefreshAllBusinessesTask{Limit: 20}, api.queue.enqueued[0])

	w = api.do(t, "POST", "/api/businesses/refresh", RefreshAllRequest{Limit: -1}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasks_EnqueueFailure(t *testing.T) {
	api := newTestAPI(t, 90)
	api.queue.enqueueErr = errors.New("queue closed")

	w := api.do(t, "POST", "/api/businesses/1/refresh", nil, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeInternal, decodeJSON[ErrorResponse](t, w).Code)
}

func TestTasks_GetTaskStatus(t *testing.T) {
	api := newTestAPI(t, 90)
	api.queue.statuses["task-1"] = backlite.TaskStatusSuccess

	w := api.do(t, "GET", "/api/tasks/task-1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decodeJSON[map[string]any](t, w)["status"])

	w = api.do(t, "GET", "/api/tasks/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTasks_ListTypesAndMaintenance(t *testing.T) {
	api := newTestAPI(t, 90)

	w := api.do(t, "GET", "/api/tasks/types", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	types := decodeJSON[map[string][]TaskTypeInfo](t, w)["task_types"]
	assert.Len(t, types, 3)

	w = api.do(t, "POST", "/api/maintenance/run", nil, true)
	require.Equal(t, http.StatusAccepted, w.Code)
	data := decodeJSON[SuccessResponse](t, w).Data.(map[string]any)
	assert.Equal(t, "maintenance-1", data["task_id"])
	assert.Equal(t, "2026-03-15T03:00:00Z", data["next_run"])
	assert.Equal(t, 1, api.maintenance.runs)
}

func TestTaskStatusToString(t *testing.T) {
	tests := []struct {
		status   backlite.TaskStatus
		expected string
	}{
		{backlite.TaskStatusPending, "pending"},
		{backlite.TaskStatusRunning, "running"},
		{backlite.TaskStatusSuccess, "success"},
		{backlite.TaskStatusFailure, "failure"},
		{backlite.TaskStatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, taskStatusToString(tt.status))
	}
}
