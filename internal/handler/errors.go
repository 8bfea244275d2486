package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
)

// respondError maps the client's error taxonomy onto bridge responses.
// Upstream credential failures are a gateway problem from the caller's
// point of view, not a bridge-auth problem, so they map to 502 with a
// distinct error string.
func respondError(c *gin.Context, err error) {
	var notFound *alexa.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var authErr *alexa.AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream rejected credentials", "detail": err.Error()})
		return
	}

	var malformed *alexa.MalformedResponseError
	if errors.As(err, &malformed) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream returned an unexpected response", "detail": err.Error()})
		return
	}

	var upstream *alexa.UpstreamError
	if errors.As(err, &upstream) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream request failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
