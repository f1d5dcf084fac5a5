// Package spatial provides coordinate validation and great-circle helpers
// built on the S2 geometry library.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/airwatch/internal/hotspot"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius in kilometres
const EarthRadiusKm = 6371.0088

// ErrInvalidCoordinate is returned for coordinates outside [-90,90] x [-180,180]
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ValidateCoordinate rejects non-finite or out-of-range coordinates
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("%w: (%v, %v) is not finite", ErrInvalidCoordinate, lat, lng)
	}
	if !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return fmt.Errorf("%w: (%v, %v) outside [-90,90] x [-180,180]", ErrInvalidCoordinate, lat, lng)
	}
	return nil
}

// DistanceKm returns the great-circle distance between two points in kilometres
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Nearest describes the closest catalog hotspot to a point
type Nearest struct {
	Hotspot    hotspot.Hotspot `json:"hotspot"`
	DistanceKm float64         `json:"distance_km"`
}

// NearestHotspot returns the hotspot closest to (lat, lng) by great-circle
// distance. ok is false when the catalog is empty.
func NearestHotspot(c *hotspot.Catalog, lat, lng float64) (n Nearest, ok bool) {
	best := math.Inf(1)
	for i := 0; i < c.Len(); i++ {
		h := c.At(i)
		d := DistanceKm(lat, lng, h.Latitude, h.Longitude)
		if d < best {
			best = d
			n = Nearest{Hotspot: h, DistanceKm: d}
			ok = true
		}
	}
	return n, ok
}
