// Package aqi provides functions for calculating Air Quality Index values
// from particulate matter concentrations according to EPA standards, and for
// mapping an AQI value onto its health category.
package aqi

import (
	"fmt"
	"math"
)

// MaxScale is the upper end of the AQI range produced by the interpolation engine
const MaxScale = 300.0

// CalculatePM25 calculates the Air Quality Index from PM2.5 concentration (μg/m³)
// Based on EPA AQI calculation formula for 24-hour PM2.5 averages
func CalculatePM25(pm25 float64) int32 {
	return fromBreakpoints(pm25, pm25Breakpoints)
}

// CalculatePM10 calculates the Air Quality Index from PM10 concentration (μg/m³)
// Based on EPA AQI calculation formula for 24-hour PM10 averages
func CalculatePM10(pm10 float64) int32 {
	return fromBreakpoints(pm10, pm10Breakpoints)
}

type breakpoint struct {
	cLow, cHigh float64
	iLow, iHigh float64
}

// EPA breakpoints for PM2.5
var pm25Breakpoints = []breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

// EPA breakpoints for PM10
var pm10Breakpoints = []breakpoint{
	{0, 54, 0, 50},
	{55, 154, 51, 100},
	{155, 254, 101, 150},
	{255, 354, 151, 200},
	{355, 424, 201, 300},
	{425, 504, 301, 400},
	{505, 604, 401, 500},
}

func fromBreakpoints(c float64, table []breakpoint) int32 {
	if c < 0 || math.IsNaN(c) {
		return 0
	}

	for _, bp := range table {
		if c <= bp.cHigh {
			// I = (I_high - I_low) / (C_high - C_low) * (C - C_low) + I_low
			aqi := ((bp.iHigh-bp.iLow)/(bp.cHigh-bp.cLow))*(c-bp.cLow) + bp.iLow
			return int32(math.Round(aqi))
		}
	}

	// Beyond the last breakpoint, AQI is 500+
	return 500
}

// Band identifies one of the six AQI health bands
type Band int

const (
	Good Band = iota
	Moderate
	SensitiveUnhealthy
	Unhealthy
	VeryUnhealthy
	Hazardous
)

// String returns the machine-friendly name of the band
func (b Band) String() string {
	switch b {
	case Good:
		return "good"
	case Moderate:
		return "moderate"
	case SensitiveUnhealthy:
		return "sensitive_unhealthy"
	case Unhealthy:
		return "unhealthy"
	case VeryUnhealthy:
		return "very_unhealthy"
	case Hazardous:
		return "hazardous"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// RGB is an opaque 8-bit colour triple
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Category describes the health band an AQI value falls in
type Category struct {
	Band           Band   `json:"-"`
	Name           string `json:"band"`
	Label          string `json:"label"`
	Color          RGB    `json:"color"`
	Recommendation string `json:"recommendation"`
}

// Hex returns the category colour as a #rrggbb string
func (c Category) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B)
}

// BandInfo is one row of the category table. UpperBound is inclusive and is
// nil for the last, unbounded band.
type BandInfo struct {
	Category
	UpperBound *float64 `json:"upper_bound"`
}

var categories = [...]Category{
	{
		Band:           Good,
		Label:          "Good",
		Color:          RGB{0, 200, 83}, // Green
		Recommendation: "Air quality is great! Perfect for outdoor activities.",
	},
	{
		Band:           Moderate,
		Label:          "Moderate",
		Color:          RGB{154, 205, 50}, // Yellow-green
		Recommendation: "Air quality is acceptable. Sensitive individuals should consider limiting prolonged outdoor activities.",
	},
	{
		Band:           SensitiveUnhealthy,
		Label:          "Unhealthy for Sensitive Groups",
		Color:          RGB{255, 193, 7}, // Yellow-orange
		Recommendation: "Members of sensitive groups may experience health effects. General public is less likely to be affected.",
	},
	{
		Band:           Unhealthy,
		Label:          "Unhealthy",
		Color:          RGB{255, 126, 0}, // Orange
		Recommendation: "Everyone may begin to experience health effects. Sensitive groups should avoid prolonged outdoor activities.",
	},
	{
		Band:           VeryUnhealthy,
		Label:          "Very Unhealthy",
		Color:          RGB{230, 0, 0}, // Red
		Recommendation: "Health alert! Everyone should avoid outdoor activities.",
	},
	{
		Band:           Hazardous,
		Label:          "Hazardous",
		Color:          RGB{126, 0, 35}, // Dark red
		Recommendation: "Health warning of emergency conditions. Everyone should stay indoors and keep activity levels low.",
	},
}

var upperBounds = [...]float64{50, 100, 150, 200, 300, math.Inf(1)}

func init() {
	for i := range categories {
		categories[i].Name = categories[i].Band.String()
	}
}

// BandFor returns the band for an AQI value. Upper bounds are inclusive, so 50
// is Good and anything above it is Moderate. NaN and negative values are Good.
func BandFor(aqi float64) Band {
	if math.IsNaN(aqi) || aqi < 0 {
		return Good
	}
	switch {
	case aqi <= 50:
		return Good
	case aqi <= 100:
		return Moderate
	case aqi <= 150:
		return SensitiveUnhealthy
	case aqi <= 200:
		return Unhealthy
	case aqi <= 300:
		return VeryUnhealthy
	default:
		return Hazardous
	}
}

// Categorize returns the full category for an AQI value. It is defined for
// every float64 input.
func Categorize(aqi float64) Category {
	return categories[BandFor(aqi)]
}

// Bands returns the six bands in ascending order with their inclusive upper bounds
func Bands() []BandInfo {
	out := make([]BandInfo, len(categories))
	for i, c := range categories {
		out[i] = BandInfo{Category: c}
		if !math.IsInf(upperBounds[i], 1) {
			ub := upperBounds[i]
			out[i].UpperBound = &ub
		}
	}
	return out
}

// Clamp limits an AQI value to [0, MaxScale]. NaN becomes 0.
func Clamp(aqi float64) float64 {
	if math.IsNaN(aqi) || aqi < 0 {
		return 0
	}
	if aqi > MaxScale {
		return MaxScale
	}
	return aqi
}
