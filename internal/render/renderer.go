// Package render samples the pollution field over a regular equirectangular
// grid and produces colourised, smoothed overlay frames.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/chrissnell/airwatch/pkg/aqi"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultAlpha is the overlay opacity used when none is configured
const DefaultAlpha uint8 = 180

// MaxDimension bounds the width and height of a single render
const MaxDimension = 8192

// ErrInvalidDimensions is returned for non-positive or oversized render requests
var ErrInvalidDimensions = errors.New("invalid render dimensions")

// Field is anything that can be sampled for an AQI value
type Field interface {
	AQIAt(lat, lng float64) float64
}

// Options tune the renderer
type Options struct {
	// Alpha is applied to every pixel
	Alpha uint8
	// BlurRadius is the Gaussian blur radius in pixels; 0 disables smoothing
	BlurRadius int
	// Workers bounds the number of rows rendered in parallel; 0 means GOMAXPROCS
	Workers int
}

// Renderer turns a Field into frames
type Renderer struct {
	field   Field
	opts    Options
	logger  *zap.SugaredLogger
	nowFunc func() time.Time
}

// NewRenderer creates a renderer over field
func NewRenderer(field Field, opts Options, logger *zap.SugaredLogger) *Renderer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.BlurRadius < 0 {
		opts.BlurRadius = 0
	}
	if opts.Alpha == 0 {
		opts.Alpha = DefaultAlpha
	}
	return &Renderer{
		field:   field,
		opts:    opts,
		logger:  logger.Named("render"),
		nowFunc: time.Now,
	}
}

// Options returns the effective renderer options
func (r *Renderer) Options() Options {
	return r.opts
}

// Render samples the field over a width x height grid covering the whole
// globe. It returns ctx.Err() if ctx is cancelled before every row is done.
func (r *Renderer) Render(ctx context.Context, width, height int) (*Frame, error) {
	return r.render(ctx, width, height, 0)
}

// ValidateDimensions checks that width x height is a renderable frame size
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

func (r *Renderer) render(ctx context.Context, width, height int, generation uint64) (*Frame, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}

	start := time.Now()
	raw := image.NewNRGBA(image.Rect(0, 0, width, height))
	samples := make([]float64, width*height)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for y := 0; y < height; y++ {
		y := y
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.renderRow(raw, samples, y, width, height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := &Frame{
		ID:         uuid.New(),
		Generation: generation,
		Width:      width,
		Height:     height,
		Bounds:     World,
		CreatedAt:  r.nowFunc(),
		Unsmoothed: raw,
		Image:      Blur(raw, r.opts.BlurRadius),
		AQI:        samples,
		Stats:      summarize(samples),
	}

	r.logger.Debugw("rendered frame",
		"id", f.ID,
		"generation", generation,
		"width", width,
		"height", height,
		"blur_radius", r.opts.BlurRadius,
		"duration", time.Since(start))

	return f, nil
}

// renderRow fills row y. Rows never overlap so workers need no locking.
func (r *Renderer) renderRow(img *image.NRGBA, samples []float64, y, width, height int) {
	row := img.Pix[y*img.Stride:]
	for x := 0; x < width; x++ {
		lat, lng := PixelToLatLng(x, y, width, height)
		v := aqi.Clamp(r.field.AQIAt(lat, lng))
		samples[y*width+x] = v

		c := aqi.Categorize(v).Color
		p := row[x*4 : x*4+4]
		p[0] = c.R
		p[1] = c.G
		p[2] = c.B
		p[3] = r.opts.Alpha
	}
}

func summarize(samples []float64) Stats {
	s := Stats{BandPixels: make(map[string]int)}
	if len(samples) == 0 {
		return s
	}
	s.Min = floats.Min(samples)
	s.Max = floats.Max(samples)
	s.Mean, s.StdDev = stat.MeanStdDev(samples, nil)
	if math.IsNaN(s.StdDev) {
		// single sample
		s.StdDev = 0
	}
	for _, v := range samples {
		s.BandPixels[aqi.BandFor(v).String()]++
	}
	return s
}
