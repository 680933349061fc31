package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cloudcorenow/backend/internal/monitor"
)

type MonitorHandler struct {
	registry *monitor.Registry
}

func NewMonitorHandler(registry *monitor.Registry) *MonitorHandler {
	return &MonitorHandler{registry: registry}
}

// GetLogs godoc
// @Summary List provider logs
// @Tags monitoring
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name (local, aws, azure, proxmox)"
// @Param limit query int false "Max entries"
// @Success 200 {array} model.AuditLog
// @Failure 503 {object} model.ErrorResponse
// @Router /api/monitoring/{provider}/logs [get]
func (h *MonitorHandler) GetLogs(c *gin.Context) {
	src, ok := h.registry.Lookup(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown provider"})
		return
	}

	logs, err := src.Logs(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeMonitorError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetMetrics godoc
// @Summary List VM metrics
// @Tags monitoring
// @Produce json
// @Security BearerAuth
// @Param provider path string true "Provider name (local, aws, azure, proxmox)"
// @Param vm query string true "VM ID"
// @Param limit query int false "Max points"
// @Success 200 {array} model.VMMetric
// @Failure 503 {object} model.ErrorResponse
// @Router /api/monitoring/{provider}/metrics [get]
func (h *MonitorHandler) GetMetrics(c *gin.Context) {
	src, ok := h.registry.Lookup(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown provider"})
		return
	}

	vmID := c.Query("vm")
	if vmID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	metrics, err := src.Metrics(c.Request.Context(), vmID, queryLimit(c))
	if err != nil {
		writeMonitorError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func writeMonitorError(c *gin.Context, err error) {
	if errors.Is(err, monitor.ErrSourceUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Provider not available"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		return 0
	}
	return limit
}
