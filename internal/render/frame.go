package render

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// GeoBox is the geographic extent covered by a frame, in degrees
type GeoBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// World is the whole-globe equirectangular extent
var World = GeoBox{North: 90, South: -90, West: -180, East: 180}

// PixelToLatLng maps pixel (x, y) of a width x height grid onto the globe.
// Pixel (0, 0) is (90, -180).
func PixelToLatLng(x, y, width, height int) (lat, lng float64) {
	lat = 90 - (float64(y)/float64(height))*180
	lng = -180 + (float64(x)/float64(width))*360
	return lat, lng
}

// Stats summarises the AQI samples of a frame
type Stats struct {
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	Mean       float64        `json:"mean"`
	StdDev     float64        `json:"stddev"`
	BandPixels map[string]int `json:"band_pixels"`
}

// Frame is one fully rendered overlay. Frames are never modified after the
// renderer returns them.
type Frame struct {
	ID         uuid.UUID
	Generation uint64
	Width      int
	Height     int
	Bounds     GeoBox
	CreatedAt  time.Time

	// Image is the smoothed overlay; Unsmoothed is the per-cell colour buffer
	// before blurring. Both are non-premultiplied RGBA.
	Image      *image.NRGBA
	Unsmoothed *image.NRGBA

	// AQI holds the clamped sample for every cell, row-major
	AQI   []float64
	Stats Stats
}

// AQIAtPixel returns the sampled AQI for cell (x, y)
func (f *Frame) AQIAtPixel(x, y int) float64 {
	return f.AQI[y*f.Width+x]
}

// FrameInfo is the serialisable description of a frame, without pixel data
type FrameInfo struct {
	ID         string    `json:"id"`
	Generation uint64    `json:"generation"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Bounds     GeoBox    `json:"bounds"`
	CreatedAt  time.Time `json:"created_at"`
	Stats      Stats     `json:"stats"`
}

// Info returns the frame's metadata
func (f *Frame) Info() FrameInfo {
	return FrameInfo{
		ID:         f.ID.String(),
		Generation: f.Generation,
		Width:      f.Width,
		Height:     f.Height,
		Bounds:     f.Bounds,
		CreatedAt:  f.CreatedAt,
		Stats:      f.Stats,
	}
}
