// Package interpolate turns a hotspot catalog into a continuous pollution
// field using inverse-distance weighting with exponential falloff.
//
// Distances are planar in raw degree space. Longitude does not wrap at the
// antimeridian, so a hotspot near +180 has no influence just across at -180.
package interpolate

import (
	"math"

	"github.com/chrissnell/airwatch/internal/hotspot"
	"github.com/chrissnell/airwatch/pkg/aqi"
)

const (
	// falloffShape scales each hotspot's radius into its exponential decay length
	falloffShape = 0.7

	// farFieldWeight is the total weight below which a point is treated as
	// outside every hotspot's influence
	farFieldWeight = 0.005

	nearHotspotShare  = 0.85
	nearBaselineShare = 0.15
	nearNoiseShare    = 0.08
	farNoiseShare     = 0.2
)

// SampleResult is the field value at one coordinate
type SampleResult struct {
	Intensity float64 `json:"intensity"`
	AQI       float64 `json:"aqi"`
}

// Breakdown exposes the intermediate terms of a single evaluation
type Breakdown struct {
	TotalWeight float64 `json:"total_weight"`
	WeightedSum float64 `json:"weighted_sum"`
	Baseline    float64 `json:"baseline"`
	Noise       float64 `json:"noise"`
	FarField    bool    `json:"far_field"`
	Intensity   float64 `json:"intensity"`
	AQI         float64 `json:"aqi"`
}

// Engine evaluates the field. It holds its own copy of the catalog and is
// safe for concurrent use.
type Engine struct {
	hotspots []hotspot.Hotspot
	catalog  *hotspot.Catalog
}

// New creates an engine over the given catalog
func New(c *hotspot.Catalog) *Engine {
	return &Engine{
		hotspots: c.Hotspots(),
		catalog:  c,
	}
}

// Catalog returns the catalog the engine was built from
func (e *Engine) Catalog() *hotspot.Catalog {
	return e.catalog
}

// Breakdown evaluates the field at (lat, lng) and returns every intermediate term
func (e *Engine) Breakdown(lat, lng float64) Breakdown {
	var b Breakdown

	for _, h := range e.hotspots {
		dLat := lat - h.Latitude
		dLng := lng - h.Longitude
		d := math.Sqrt(dLat*dLat + dLng*dLng)
		w := math.Exp(-d / (h.Radius * falloffShape))
		b.TotalWeight += w
		b.WeightedSum += h.Intensity * w
	}

	b.Baseline = Baseline(lat)
	b.Noise = Noise(lat, lng)

	var v float64
	if b.TotalWeight < farFieldWeight {
		b.FarField = true
		v = b.Baseline + b.Noise*farNoiseShare
	} else {
		v = (b.WeightedSum/b.TotalWeight)*nearHotspotShare + b.Baseline*nearBaselineShare + b.Noise*nearNoiseShare
	}

	b.Intensity = clampUnit(v)
	b.AQI = aqi.Clamp(b.Intensity * aqi.MaxScale)
	return b
}

// IntensityAt returns the pollution intensity in [0,1] at (lat, lng)
func (e *Engine) IntensityAt(lat, lng float64) float64 {
	return e.Breakdown(lat, lng).Intensity
}

// AQIAt returns the AQI in [0,300] at (lat, lng)
func (e *Engine) AQIAt(lat, lng float64) float64 {
	return e.Breakdown(lat, lng).AQI
}

// Sample returns intensity and AQI at (lat, lng)
func (e *Engine) Sample(lat, lng float64) SampleResult {
	b := e.Breakdown(lat, lng)
	return SampleResult{Intensity: b.Intensity, AQI: b.AQI}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
