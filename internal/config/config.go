// Package config holds the application configuration and its YAML loader.
package config

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"LocalBoard/internal/align"
	"LocalBoard/internal/apperr"
	"LocalBoard/internal/board"
	"LocalBoard/internal/tool"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig  `yaml:"app"`
	Alignment align.Config       `yaml:"alignment"`
	Camera    board.CameraConfig `yaml:"camera"`
	Tools     tool.Settings      `yaml:"tools"`
	Discovery DiscoveryConfig    `yaml:"discovery"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Alignment.Validate(); err != nil {
		return err
	}
	if err := c.Camera.Validate(); err != nil {
		return err
	}
	if err := c.Tools.Validate(); err != nil {
		return err
	}
	return c.Discovery.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the websocket feed server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
	if err != nil {
		return fmt.Errorf("http: %v: %w", err, apperr.ErrInvalidConfig)
	}
	return nil
}

// DiscoveryConfig controls mDNS advertisement of the feed server.
type DiscoveryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
	Service  string `yaml:"service"`
}

// Validate validates the discovery configuration.
func (c *DiscoveryConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Instance, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Service, validation.When(c.Enabled, validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("discovery: %v: %w", err, apperr.ErrInvalidConfig)
	}
	return nil
}

// NewDefaultConfig returns a new Config with the default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Alignment: align.DefaultConfig(),
		Camera:    board.DefaultCameraConfig(),
		Tools:     tool.DefaultSettings(),
		Discovery: DiscoveryConfig{
			Enabled:  true,
			Instance: "LocalBoard",
			Service:  "_localboard._tcp",
		},
	}
}
