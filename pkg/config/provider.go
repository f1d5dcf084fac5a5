// Package config loads airwatch configuration from YAML files or a SQLite
// database.
package config

import (
	"fmt"
	"time"

	"github.com/chrissnell/airwatch/internal/hotspot"
)

// Provider types accepted in the provider section
const (
	ProviderBackend   = "backend"
	ProviderOpenMeteo = "openmeteo"
	ProviderNone      = "none"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// GetHotspots returns the configured catalog entries in order. An empty
	// result means the built-in reference catalog should be used.
	GetHotspots() ([]hotspot.Hotspot, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server   ServerData        `json:"server" yaml:"server"`
	Provider ProviderData      `json:"provider" yaml:"provider"`
	Render   RenderData        `json:"render" yaml:"render"`
	Hotspots []hotspot.Hotspot `json:"hotspots,omitempty" yaml:"hotspots,omitempty"`
}

// ServerData configures the REST server
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
}

// ProviderData selects and configures the live data provider. For the
// openmeteo type BaseURL is the forecast endpoint.
type ProviderData struct {
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	BaseURL       string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	AirQualityURL string `json:"air_quality_url,omitempty" yaml:"air_quality_url,omitempty"`
	Timeout       string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// RenderData sets the default overlay parameters
type RenderData struct {
	Width      int `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int `json:"height,omitempty" yaml:"height,omitempty"`
	BlurRadius int `json:"blur_radius,omitempty" yaml:"blur_radius,omitempty"`
	Alpha      int `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	Workers    int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Defaults
const (
	DefaultListenAddr  = "0.0.0.0"
	DefaultPort        = 8080
	DefaultTimeout     = "5s"
	DefaultWidth       = 720
	DefaultHeight      = 360
	DefaultBlurRadius  = 2
	DefaultAlpha       = 180
	maxRenderDimension = 8192
)

// ApplyDefaults fills unset fields. A zero blur radius selects
// DefaultBlurRadius; a negative one disables smoothing and is left alone.
func (c *ConfigData) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Provider.Type == "" {
		c.Provider.Type = ProviderBackend
	}
	if c.Provider.Timeout == "" {
		c.Provider.Timeout = DefaultTimeout
	}
	if c.Render.Width == 0 {
		c.Render.Width = DefaultWidth
	}
	if c.Render.Height == 0 {
		c.Render.Height = DefaultHeight
	}
	if c.Render.BlurRadius == 0 {
		c.Render.BlurRadius = DefaultBlurRadius
	}
	if c.Render.Alpha == 0 {
		c.Render.Alpha = DefaultAlpha
	}
}

// Validate checks the configuration after defaults have been applied
func (c *ConfigData) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		return fmt.Errorf("server cert and key must be set together")
	}

	switch c.Provider.Type {
	case ProviderBackend, ProviderOpenMeteo, ProviderNone:
	default:
		return fmt.Errorf("unknown provider type %q", c.Provider.Type)
	}
	if _, err := c.ProviderTimeout(); err != nil {
		return err
	}

	r := c.Render
	if r.Width < 1 || r.Height < 1 || r.Width > maxRenderDimension || r.Height > maxRenderDimension {
		return fmt.Errorf("render dimensions %dx%d out of range", r.Width, r.Height)
	}
	if r.Alpha < 1 || r.Alpha > 255 {
		return fmt.Errorf("render alpha %d outside [1,255]", r.Alpha)
	}
	if r.Workers < 0 {
		return fmt.Errorf("render workers must not be negative")
	}

	if _, err := hotspot.NewCatalog(c.Hotspots); err != nil {
		return err
	}
	return nil
}

// ProviderTimeout parses the provider timeout
func (c *ConfigData) ProviderTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid provider timeout %q: %w", c.Provider.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("provider timeout must be positive, got %v", d)
	}
	return d, nil
}

// Catalog builds the hotspot catalog, falling back to the reference set when
// none is configured.
func (c *ConfigData) Catalog() (*hotspot.Catalog, error) {
	if len(c.Hotspots) == 0 {
		return hotspot.Reference(), nil
	}
	return hotspot.NewCatalog(c.Hotspots)
}
