// Package hotspot holds the immutable catalog of pollution influence sources
// that the interpolation engine blends into a continuous field.
package hotspot

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidHotspot is returned when a hotspot falls outside its allowed ranges
var ErrInvalidHotspot = errors.New("invalid hotspot")

// Hotspot is one influence source: a city, industrial zone or clean region
type Hotspot struct {
	Name      string  `json:"name,omitempty" yaml:"name,omitempty"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
	Radius    float64 `json:"radius" yaml:"radius"`
}

// Validate checks the hotspot's ranges
func (h Hotspot) Validate() error {
	switch {
	case !finite(h.Latitude) || h.Latitude < -90 || h.Latitude > 90:
		return fmt.Errorf("%w %q: latitude %v outside [-90,90]", ErrInvalidHotspot, h.Name, h.Latitude)
	case !finite(h.Longitude) || h.Longitude < -180 || h.Longitude > 180:
		return fmt.Errorf("%w %q: longitude %v outside [-180,180]", ErrInvalidHotspot, h.Name, h.Longitude)
	case !finite(h.Intensity) || h.Intensity < 0 || h.Intensity > 1:
		return fmt.Errorf("%w %q: intensity %v outside [0,1]", ErrInvalidHotspot, h.Name, h.Intensity)
	case !finite(h.Radius) || h.Radius <= 0:
		return fmt.Errorf("%w %q: radius %v must be positive", ErrInvalidHotspot, h.Name, h.Radius)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Catalog is an ordered, read-only set of hotspots. It is never mutated after
// construction and may be shared between goroutines without locking.
type Catalog struct {
	hotspots  []Hotspot
	maxRadius float64
}

// NewCatalog validates and copies the given hotspots into a new catalog. An
// empty catalog is valid.
func NewCatalog(hotspots []Hotspot) (*Catalog, error) {
	c := &Catalog{
		hotspots: make([]Hotspot, len(hotspots)),
	}
	for i, h := range hotspots {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("hotspot %d: %w", i, err)
		}
		c.hotspots[i] = h
		if h.Radius > c.maxRadius {
			c.maxRadius = h.Radius
		}
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on invalid input. Intended for
// static reference data.
func MustCatalog(hotspots []Hotspot) *Catalog {
	c, err := NewCatalog(hotspots)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of hotspots
func (c *Catalog) Len() int {
	return len(c.hotspots)
}

// At returns the i-th hotspot
func (c *Catalog) At(i int) Hotspot {
	return c.hotspots[i]
}

// Hotspots returns a copy of the catalog contents in catalog order
func (c *Catalog) Hotspots() []Hotspot {
	out := make([]Hotspot, len(c.hotspots))
	copy(out, c.hotspots)
	return out
}

// MaxRadius returns the largest radius in the catalog, or 0 when empty
func (c *Catalog) MaxRadius() float64 {
	return c.maxRadius
}
