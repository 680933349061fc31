package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudcorenow/backend/internal/client"
)

type RMMHandler struct {
	rmm *client.RMMClient
}

func NewRMMHandler(rmm *client.RMMClient) *RMMHandler {
	return &RMMHandler{rmm: rmm}
}

// ListDevices godoc
// @Summary List RMM devices
// @Tags rmm
// @Produce json
// @Security BearerAuth
// @Success 200 {array} client.RMMDevice
// @Failure 503 {object} model.ErrorResponse
// @Router /api/rmm/devices [get]
func (h *RMMHandler) ListDevices(c *gin.Context) {
	if !h.rmm.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Provider not available"})
		return
	}

	devices, err := h.rmm.ListDevices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "RMM service error"})
		return
	}
	c.JSON(http.StatusOK, devices)
}

// RunCommand godoc
// @Summary Run a command on an RMM device
// @Tags rmm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body client.RMMCommandRequest true "Device and command"
// @Success 200 {object} client.RMMCommandResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/rmm/command [post]
func (h *RMMHandler) RunCommand(c *gin.Context) {
	if !h.rmm.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Provider not available"})
		return
	}

	var req client.RMMCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceID == "" || req.Command == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	res, err := h.rmm.RunCommand(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "RMM service error"})
		return
	}
	c.JSON(http.StatusOK, res)
}
