package restserver

import (
	"github.com/chrissnell/airwatch/internal/hotspot"
	"github.com/chrissnell/airwatch/pkg/aqi"
)

// AQIResponse is the engine's answer for one coordinate
type AQIResponse struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Intensity float64      `json:"intensity"`
	AQI       float64      `json:"aqi"`
	FarField  bool         `json:"far_field"`
	Category  aqi.Category `json:"category"`
	ColorHex  string       `json:"color_hex"`
}

// HotspotsResponse lists the loaded catalog
type HotspotsResponse struct {
	Count     int               `json:"count"`
	MaxRadius float64           `json:"max_radius"`
	Hotspots  []hotspot.Hotspot `json:"hotspots"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status   string `json:"status"`
	Hotspots int    `json:"hotspots"`
	Provider string `json:"provider"`
	Overlay  bool   `json:"overlay_visible"`
}
