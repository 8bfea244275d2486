package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/auth"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/middleware"
)

type AuthHandler struct {
	MasterSecret string
	TokenConfig  auth.TokenConfig
	Limiter      *middleware.RateLimiter
}

type authBody struct {
	Secret string `json:"secret"`
}

// Auth exchanges the master secret for a bearer token. Attempts are
// rate-limited per client address to slow down secret guessing.
func (h *AuthHandler) Auth(c *gin.Context) {
	if h.Limiter != nil && !h.Limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
		return
	}

	var body authBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !auth.VerifySecret(body.Secret, h.MasterSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret"})
		return
	}

	token, err := auth.CreateToken(h.TokenConfig)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
