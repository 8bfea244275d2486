package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/model"
)

type LightHandler struct {
	Client *alexa.Client
	Events *Events
}

func (h *LightHandler) Get(c *gin.Context) {
	light, err := h.Client.PrimaryLight(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"light": gin.H{
		"entityId":     light.EntityID,
		"friendlyName": light.FriendlyName,
		"capabilities": light.Capabilities,
	}})
}

func (h *LightHandler) State(c *gin.Context) {
	light, err := h.Client.PrimaryLight(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	on, err := h.Client.IsLightOn(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.Events.PublishLightState(model.LightState{EntityID: light.EntityID, Name: light.FriendlyName, On: on})
	c.JSON(http.StatusOK, gin.H{"on": on, "entityId": light.EntityID})
}

type powerBody struct {
	On *bool `json:"on"`
}

func (h *LightHandler) Power(c *gin.Context) {
	var body powerBody
	if err := c.ShouldBindJSON(&body); err != nil || body.On == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.Client.SetLightPower(c.Request.Context(), *body.On)
	command := "light-off"
	if *body.On {
		command = "light-on"
	}
	h.Events.Publish(command, "", "", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
