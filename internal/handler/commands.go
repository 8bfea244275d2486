package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
)

type CommandHandler struct {
	Client *alexa.Client
	Events *Events
}

type textBody struct {
	Text string `json:"text"`
}

func (h *CommandHandler) deviceName(c *gin.Context) string {
	device, err := h.Client.PrimaryVoiceDevice(c.Request.Context())
	if err != nil {
		return ""
	}
	return device.FriendlyName
}

func (h *CommandHandler) Speak(c *gin.Context) {
	var body textBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.Client.Speak(c.Request.Context(), body.Text)
	h.Events.Publish("speak", body.Text, h.deviceName(c), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CommandHandler) TextCommand(c *gin.Context) {
	var body textBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.Client.TextCommand(c.Request.Context(), body.Text)
	h.Events.Publish("text-command", body.Text, h.deviceName(c), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type playBody struct {
	SearchPhrase string `json:"searchPhrase"`
}

func (h *CommandHandler) PlayMusic(c *gin.Context) {
	var body playBody
	if err := c.ShouldBindJSON(&body); err != nil || body.SearchPhrase == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.Client.PlayMusic(c.Request.Context(), body.SearchPhrase)
	h.Events.Publish("music-play", body.SearchPhrase, h.deviceName(c), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Playback executes a named playback command, e.g.
// POST /v1/playback/PauseCommand.
func (h *CommandHandler) Playback(c *gin.Context) {
	name := c.Param("name")
	if _, ok := alexa.PlaybackPhrase(name); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Unsupported playback command",
			"supported": alexa.PlaybackCommands(),
		})
		return
	}

	err := h.Client.Playback(c.Request.Context(), name)
	h.Events.Publish("playback:"+name, "", h.deviceName(c), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
