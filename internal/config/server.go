package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the standalone websocket server.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	AllowOrigins []string      `yaml:"allow_origins"`
	PingInterval time.Duration `yaml:"ping_interval"`
	MessageRate  float64       `yaml:"message_rate"` // gestures per second per connection
	MessageBurst int           `yaml:"message_burst"`
	LogLevel     string        `yaml:"log_level"`
	GameConfig   string        `yaml:"game_config"` // optional path to the game rules file
}

// DefaultServerConfig returns the settings used when no file is given.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         ":8080",
		PingInterval: 15 * time.Second,
		MessageRate:  20,
		MessageBurst: 40,
		LogLevel:     "info",
	}
}

// LoadServerConfig reads a YAML server config. Zero fields fall back to the defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	c := DefaultServerConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}
	c.ApplyDefaults()
	return &c, nil
}

// ApplyDefaults replaces zero or negative fields with DefaultServerConfig values.
func (c *ServerConfig) ApplyDefaults() {
	def := DefaultServerConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.PingInterval <= 0 {
		c.PingInterval = def.PingInterval
	}
	if c.MessageRate <= 0 {
		c.MessageRate = def.MessageRate
	}
	if c.MessageBurst <= 0 {
		c.MessageBurst = def.MessageBurst
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
