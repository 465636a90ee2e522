package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/annuaire-qc/directory/internal/tasks"
)

// TasksController handles the admin background work endpoints.
type TasksController struct {
	queue       TaskQueue
	maintenance MaintenanceRunner
}

// NewTasksController creates a new TasksController. maintenance may be nil.
func NewTasksController(queue TaskQueue, maintenance MaintenanceRunner) *TasksController {
	return &TasksController{queue: queue, maintenance: maintenance}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RefreshRequest is the optional body of POST /api/businesses/:id/refresh.
type RefreshRequest struct {
	// Force lets the refresh run past the daily allowance.
	Force bool `json:"force"`
}

// RefreshAllRequest is the optional body of POST /api/businesses/refresh.
type RefreshAllRequest struct {
	Limit int `json:"limit"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{Type: tasks.QueueRefreshBusiness, Description: "Re-import one listing from Google Places"},
		{Type: tasks.QueueRefreshAll, Description: "Re-import every listing until the daily quota is used"},
		{Type: tasks.QueueCleanupAudit, Description: "Delete audit events past the retention window"},
	}
	c.JSON(http.StatusOK, gin.H{"task_types": types})
}

// RefreshBusiness handles POST /api/businesses/:id/refresh
func (tc *TasksController) RefreshBusiness(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	tc.enqueue(c, tasks.QueueRefreshBusiness, tasks.RefreshBusinessTask{BusinessID: id, Force: req.Force})
}

// RefreshAll handles POST /api/businesses/refresh
func (tc *TasksController) RefreshAll(c *gin.Context) {
	var req RefreshAllRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil || req.Limit < 0 {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	tc.enqueue(c, tasks.QueueRefreshAll, tasks.RefreshAllBusinessesTask{Limit: req.Limit})
}

// RunMaintenance handles POST /api/maintenance/run
func (tc *TasksController) RunMaintenance(c *gin.Context) {
	if tc.maintenance == nil {
		respondError(c, http.StatusServiceUnavailable, CodeInternal, "maintenance is disabled", nil)
		return
	}
	ids, err := tc.maintenance.RunNow()
	if err != nil {
		respondInternalError(c, err, "run maintenance")
		return
	}
	respondAccepted(c, "task enqueued", gin.H{
		"task_id":  ids[0],
		"type":     tasks.QueueCleanupAudit,
		"last_run": formatTime(tc.maintenance.LastRun()),
		"next_run": formatTime(tc.maintenance.NextRun()),
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func (tc *TasksController) enqueue(c *gin.Context, taskType string, task backlite.Task) {
	ids, err := tc.queue.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue "+taskType)
		return
	}
	respondAccepted(c, "task enqueued", gin.H{
		"task_id": ids[0],
		"type":    taskType,
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
