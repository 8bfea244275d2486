package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
)

type DevicesHandler struct {
	Client *alexa.Client
}

func (h *DevicesHandler) Account(c *gin.Context) {
	id, err := h.Client.AccountID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customerId": id})
}

func (h *DevicesHandler) List(c *gin.Context) {
	endpoints, err := h.Client.Endpoints(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(endpoints))
	for _, ep := range endpoints {
		resp = append(resp, gin.H{
			"entityId":        ep.EntityID,
			"displayCategory": ep.DisplayCategory,
			"friendlyName":    ep.FriendlyName,
			"serialNumber":    ep.SerialNumber,
			"deviceType":      ep.DeviceType,
			"features":        ep.Features,
		})
	}
	c.JSON(http.StatusOK, gin.H{"endpoints": resp})
}

func (h *DevicesHandler) Primary(c *gin.Context) {
	device, err := h.Client.PrimaryVoiceDevice(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"device": gin.H{
		"serialNumber": device.SerialNumber,
		"deviceType":   device.DeviceType,
		"friendlyName": device.FriendlyName,
	}})
}

// FlushCache drops the directory cache so the next read re-discovers
// devices. Useful after swapping hardware without restarting the bridge.
func (h *DevicesHandler) FlushCache(c *gin.Context) {
	h.Client.FlushCache()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
