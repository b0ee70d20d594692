package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rudrodip/whatyouwant/internal/api/middleware"
	"github.com/rudrodip/whatyouwant/internal/domain"
)

// StatsReader reads aggregate telemetry.
type StatsReader interface {
	TotalRequests(ctx context.Context) (int64, error)
	RecentLogs(ctx context.Context, limit int) ([]domain.RequestLog, error)
}

// StatsHandler handles telemetry read endpoints.
type StatsHandler struct {
	stats StatsReader
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats StatsReader) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Stats handles GET /api/v1/stats.
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.stats.TotalRequests(ctx)
	if err != nil {
		middleware.GetLogger(c).Errorf("Failed to read request counter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stats"})
		return
	}

	resp := gin.H{"total_requests": total}

	if raw := c.Query("recent"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recent parameter"})
			return
		}
		logs, err := h.stats.RecentLogs(ctx, limit)
		if err != nil {
			middleware.GetLogger(c).Errorf("Failed to read recent logs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stats"})
			return
		}
		resp["recent"] = logs
	}

	c.JSON(http.StatusOK, resp)
}
