package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	MasterSecret string
	GinMode      string
	TLSCertFile  string
	TLSKeyFile   string
	TokenExpiry  time.Duration

	AlexaBaseURL  string
	AlexaUBID     string
	AlexaAtMain   string
	RegionSuffix  string
	DirectoryTTL  time.Duration
	LightEntityID string
	Locale        string

	MQTTURL         string
	MQTTTopicPrefix string
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:            3000,
		GinMode:         "release",
		TokenExpiry:     7 * 24 * time.Hour,
		AlexaBaseURL:    "https://alexa.amazon.com",
		DirectoryTTL:    5 * time.Minute,
		Locale:          "en-US",
		MQTTTopicPrefix: "alexa-bridge",
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	cfg.MasterSecret = env.Getenv("MASTER_SECRET")
	if cfg.MasterSecret == "" {
		return Config{}, fmt.Errorf("MASTER_SECRET is required")
	}

	cfg.AlexaUBID = env.Getenv("ALEXA_UBID")
	if cfg.AlexaUBID == "" {
		return Config{}, fmt.Errorf("ALEXA_UBID is required")
	}
	cfg.AlexaAtMain = env.Getenv("ALEXA_AT_MAIN")
	if cfg.AlexaAtMain == "" {
		return Config{}, fmt.Errorf("ALEXA_AT_MAIN is required")
	}

	if raw := env.Getenv("ALEXA_BASE_URL"); raw != "" {
		cfg.AlexaBaseURL = raw
	}
	cfg.RegionSuffix = env.Getenv("ALEXA_REGION_SUFFIX")
	cfg.LightEntityID = env.Getenv("LIGHT_ENTITY_ID")
	if raw := env.Getenv("ALEXA_LOCALE"); raw != "" {
		cfg.Locale = raw
	}

	if raw := env.Getenv("DIRECTORY_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid DIRECTORY_TTL_SECONDS")
		}
		cfg.DirectoryTTL = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	cfg.TLSCertFile = env.Getenv("TLS_CERT_FILE")
	cfg.TLSKeyFile = env.Getenv("TLS_KEY_FILE")

	if raw := env.Getenv("TOKEN_EXPIRY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid TOKEN_EXPIRY_SECONDS")
		}
		cfg.TokenExpiry = time.Duration(seconds) * time.Second
	}

	cfg.MQTTURL = env.Getenv("MQTT_URL")
	if raw := env.Getenv("MQTT_TOPIC_PREFIX"); raw != "" {
		cfg.MQTTTopicPrefix = raw
	}

	return cfg, nil
}
