package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/quota"
)

// QuotaResponse is today's quota state with its display status.
type QuotaResponse struct {
	quota.Info
	Status quota.Status `json:"status"`
}

// QuotaHistoryResponse lists daily usage, today first.
type QuotaHistoryResponse struct {
	Days []quota.DayUsage `json:"days"`
}

type QuotaController struct {
	tracker QuotaTracker
}

func NewQuotaController(tracker QuotaTracker) *QuotaController {
	return &QuotaController{tracker: tracker}
}

// GetQuota handles GET /api/quota
func (qc *QuotaController) GetQuota(c *gin.Context) {
	info := qc.tracker.Info(c.Request.Context())
	c.JSON(http.StatusOK, QuotaResponse{Info: info, Status: quota.Classify(info)})
}

// GetHistory handles GET /api/quota/history?days=7 (admin only).
func (qc *QuotaController) GetHistory(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "days must be a positive integer")
			return
		}
		days = parsed
	}

	history, err := qc.tracker.History(c.Request.Context(), days)
	if err != nil {
		respondInternalError(c, err, "load quota history")
		return
	}
	c.JSON(http.StatusOK, QuotaHistoryResponse{Days: history})
}
