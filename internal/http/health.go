package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	quota   QuotaTracker
	version string
}

func NewHealthController(db *database.Database, quota QuotaTracker, version string) *HealthController {
	return &HealthController{
		db:      db,
		quota:   quota,
		version: version,
	}
}

// Status reports the database and quota counter. An unreadable quota counter
// degrades the service but does not fail it, since imports fail open.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.quota != nil {
		info := h.quota.Info(c.Request.Context())
		if info.Error != "" {
			checks["quota"] = "error: " + info.Error
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["quota"] = "ok"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
