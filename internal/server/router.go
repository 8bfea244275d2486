package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/auth"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/handler"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/hub"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/middleware"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/notify"
)

type Deps struct {
	Client       *alexa.Client
	TokenConfig  auth.TokenConfig
	MasterSecret string
	Hub          *hub.Hub
	MQTT         *notify.Publisher
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	if deps.Hub == nil {
		deps.Hub = hub.New()
	}

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	authHandler := &handler.AuthHandler{
		MasterSecret: deps.MasterSecret,
		TokenConfig:  deps.TokenConfig,
		Limiter:      authLimiter,
	}
	r.POST("/v1/auth", authHandler.Auth)

	events := &handler.Events{
		Hub:      deps.Hub,
		MQTT:     deps.MQTT,
		Sanitize: deps.Client.Sanitizer().Sanitize,
	}

	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(deps.TokenConfig))

	devices := &handler.DevicesHandler{Client: deps.Client}
	protected.GET("/account", devices.Account)
	protected.GET("/devices", devices.List)
	protected.GET("/devices/primary", devices.Primary)
	protected.POST("/cache/flush", devices.FlushCache)

	light := &handler.LightHandler{Client: deps.Client, Events: events}
	protected.GET("/light", light.Get)
	protected.GET("/light/state", light.State)

	// The upstream throttles behavior calls; bound them here too.
	commandLimiter := middleware.NewRateLimiter(30, time.Minute)
	commands := &handler.CommandHandler{Client: deps.Client, Events: events}
	writes := protected.Group("", middleware.RateLimit(commandLimiter))
	writes.POST("/speak", commands.Speak)
	writes.POST("/command", commands.TextCommand)
	writes.POST("/music/play", commands.PlayMusic)
	writes.POST("/playback/:name", commands.Playback)
	writes.POST("/light/power", light.Power)

	ws := &handler.WebSocketHandler{Hub: deps.Hub, TokenConfig: deps.TokenConfig}
	r.GET("/ws", ws.Serve)

	return r
}
