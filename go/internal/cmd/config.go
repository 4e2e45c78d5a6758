package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FaneD1/Pomadoro/go/internal/gateway"
	"github.com/FaneD1/Pomadoro/go/internal/timer"
)

// Config is the yaml application config. Every field has a working default
// so a missing config file is not an error.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Timer struct {
		DefaultDurationSeconds int `yaml:"default_duration_seconds"`
	} `yaml:"timer"`

	Websocket struct {
		WriteTimeoutSeconds int   `yaml:"write_timeout_seconds"`
		ReadTimeoutSeconds  int   `yaml:"read_timeout_seconds"`
		PingIntervalSeconds int   `yaml:"ping_interval_seconds"`
		MaxMessageBytes     int64 `yaml:"max_message_bytes"`
	} `yaml:"websocket"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Timer.DefaultDurationSeconds = timer.DefaultDurationSeconds
	return cfg
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = getEnv("PORT", "8080")
	}
	if cfg.Timer.DefaultDurationSeconds <= 0 {
		cfg.Timer.DefaultDurationSeconds = timer.DefaultDurationSeconds
	}

	return cfg, nil
}

// connectionConfig maps the yaml websocket tuning onto the gateway's
// defaults, overriding only what the file sets.
func (c *Config) connectionConfig() gateway.ConnectionConfig {
	cc := gateway.DefaultConnectionConfig()
	if c.Websocket.WriteTimeoutSeconds > 0 {
		cc.WriteTimeout = time.Duration(c.Websocket.WriteTimeoutSeconds) * time.Second
	}
	if c.Websocket.ReadTimeoutSeconds > 0 {
		cc.ReadTimeout = time.Duration(c.Websocket.ReadTimeoutSeconds) * time.Second
	}
	if c.Websocket.PingIntervalSeconds > 0 {
		cc.PingInterval = time.Duration(c.Websocket.PingIntervalSeconds) * time.Second
	}
	if c.Websocket.MaxMessageBytes > 0 {
		cc.MaxMessageSize = c.Websocket.MaxMessageBytes
	}
	return cc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
