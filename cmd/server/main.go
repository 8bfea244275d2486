package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/auth"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/config"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/hub"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/notify"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	gin.SetMode(cfg.GinMode)

	client, err := alexa.New(alexa.Credentials{
		SessionID:    cfg.AlexaUBID,
		AuthToken:    cfg.AlexaAtMain,
		RegionSuffix: cfg.RegionSuffix,
	}, alexa.Options{
		BaseURL:       cfg.AlexaBaseURL,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
		DirectoryTTL:  cfg.DirectoryTTL,
		LightEntityID: cfg.LightEntityID,
		Locale:        cfg.Locale,
	})
	if err != nil {
		log.Fatal(err)
	}

	tokenCfg := auth.TokenConfig{
		Secret: cfg.MasterSecret,
		Expiry: cfg.TokenExpiry,
		Issuer: "alexa-mcp-server",
	}

	var mqttPublisher *notify.Publisher
	if cfg.MQTTURL != "" {
		mqttPublisher, err = notify.Connect(cfg.MQTTURL, cfg.MQTTTopicPrefix, "alexa-mcp-server")
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer mqttPublisher.Close()
	}

	router := server.NewRouter(server.Deps{
		Client:       client,
		TokenConfig:  tokenCfg,
		MasterSecret: cfg.MasterSecret,
		Hub:          hub.New(),
		MQTT:         mqttPublisher,
	})

	log.Printf("listening on %s", fmt.Sprintf(":%d", cfg.Port))
	log.Fatal(server.Run(cfg, router))
}
