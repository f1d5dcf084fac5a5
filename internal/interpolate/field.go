package interpolate

import "math"

// Noise returns the deterministic perturbation added to the field so the
// space between hotspots is not flat. The result lies within [-0.07, 0.07].
func Noise(lat, lng float64) float64 {
	return 0.5 * (math.Sin(lat*0.5+lng*0.3)*0.08 + math.Cos(lat*0.3-lng*0.4)*0.06)
}

// Baseline returns the latitude-dependent background pollution level: 0.13 at
// the equator falling to 0.08 at the poles.
func Baseline(lat float64) float64 {
	return 0.08 + (1-math.Abs(lat)/90)*0.05
}
