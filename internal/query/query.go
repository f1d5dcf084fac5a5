// Package query answers "what is the air like here?" for a single coordinate.
// It asks the configured provider for live readings and, if any part of that
// fails, falls back to locally synthesized values with the AQI taken from the
// interpolation engine.
package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/airwatch/internal/interpolate"
	"github.com/chrissnell/airwatch/internal/provider"
	"github.com/chrissnell/airwatch/internal/spatial"
	"github.com/chrissnell/airwatch/pkg/aqi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// ForecastHours is the length of the hourly outlook attached to every report
const ForecastHours = 24

// Alert is a health notice attached to a report. Time says when it applies,
// e.g. "Now" or "2 hours".
type Alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// ForecastPoint is one hour of the outlook. AQI follows the engine value with
// a daily swing; the pollutant figures are synthesized.
type ForecastPoint struct {
	Time string    `json:"time"`
	At   time.Time `json:"at"`
	AQI  float64   `json:"aqi"`
	PM25 float64   `json:"pm25"`
	NO2  float64   `json:"no2"`
	O3   float64   `json:"o3"`
}

// LocationReport is everything known about one coordinate
type LocationReport struct {
	Latitude       float64                  `json:"latitude"`
	Longitude      float64                  `json:"longitude"`
	Weather        provider.Weather         `json:"weather"`
	Pollutants     provider.Pollutants      `json:"pollutants"`
	Summary        provider.AQISummary      `json:"aqi_summary"`
	Category       aqi.Category             `json:"category"`
	Engine         interpolate.SampleResult `json:"engine"`
	Source         string                   `json:"source"`
	Provider       string                   `json:"provider"`
	FallbackReason string                   `json:"fallback_reason,omitempty"`
	Alerts         []Alert                  `json:"alerts"`
	Forecast       []ForecastPoint          `json:"forecast"`
	NearestHotspot *spatial.Nearest         `json:"nearest_hotspot,omitempty"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// Facade combines a provider with the engine
type Facade struct {
	provider provider.Provider
	engine   *interpolate.Engine
	random   RandomSource
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

// NewFacade creates a facade. A nil random source selects DefaultRandom and a
// non-positive timeout selects provider.DefaultTimeout.
func NewFacade(p provider.Provider, e *interpolate.Engine, r RandomSource, timeout time.Duration, logger *zap.SugaredLogger) *Facade {
	if p == nil {
		p = provider.Disabled{}
	}
	if r == nil {
		r = DefaultRandom
	}
	if timeout <= 0 {
		timeout = provider.DefaultTimeout
	}
	return &Facade{
		provider: p,
		engine:   e,
		random:   r,
		timeout:  timeout,
		logger:   logger.Named("query"),
	}
}

// Query builds a report for (lat, lng). The only error it returns is
// spatial.ErrInvalidCoordinate; provider failures produce a fallback report.
func (f *Facade) Query(ctx context.Context, lat, lng float64) (*LocationReport, error) {
	if err := spatial.ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}

	r := &LocationReport{
		Latitude:    lat,
		Longitude:   lng,
		Engine:      f.engine.Sample(lat, lng),
		Provider:    f.provider.Name(),
		GeneratedAt: time.Now().UTC(),
	}

	if err := f.fetchLive(ctx, lat, lng, r); err != nil {
		f.logger.Infow("provider query failed, using fallback",
			"provider", f.provider.Name(), "lat", lat, "lng", lng, "error", err)
		f.fillFallback(r, err)
	} else {
		r.Source = SourceLive
	}

	// Live AQI is categorized as reported, so EPA values above 300 stay Hazardous
	r.Category = aqi.Categorize(r.Summary.AQI)
	r.Alerts = alertsFor(r.Summary.AQI, f.random)
	r.Forecast = forecastFor(r.Engine.AQI, r.GeneratedAt, f.random)
	if n, ok := spatial.NearestHotspot(f.engine.Catalog(), lat, lng); ok {
		r.NearestHotspot = &n
	}
	return r, nil
}

// fetchLive issues the three provider requests concurrently. Results are
// written into r only when all three succeed.
func (f *Facade) fetchLive(ctx context.Context, lat, lng float64, r *LocationReport) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		weather    provider.Weather
		pollutants provider.Pollutants
		summary    provider.AQISummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weather, err = f.provider.FetchWeather(gctx, lat, lng)
		return err
	})
	g.Go(func() error {
		var err error
		pollutants, err = f.provider.FetchPollutants(gctx, lat, lng)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = f.provider.FetchAQISummary(gctx, lat, lng)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r.Weather = weather
	r.Pollutants = pollutants
	r.Summary = summary
	return nil
}

var conditions = []string{"Sunny", "Cloudy", "Partly Cloudy"}

func (f *Facade) fillFallback(r *LocationReport, cause error) {
	rnd := f.random

	r.Source = SourceFallback
	r.FallbackReason = fallbackReason(cause)

	r.Weather = provider.Weather{
		Temperature: float64(rnd.Intn(15) + 15),
		Humidity:    float64(rnd.Intn(30) + 50),
		WindSpeed:   float64(rnd.Intn(10) + 5),
		Condition:   conditions[rnd.Intn(len(conditions))],
	}

	r.Pollutants = provider.Pollutants{
		NO2:  &provider.Measurement{Value: float64(rnd.Intn(40) + 10), Unit: "ppb", Source: "NASA TEMPO"},
		PM25: &provider.Measurement{Value: float64(rnd.Intn(35) + 5), Unit: "µg/m³", Source: "Ground Station"},
		O3:   &provider.Measurement{Value: float64(rnd.Intn(60) + 20), Unit: "ppb", Source: "NASA TEMPO"},
		HCHO: &provider.Measurement{Value: math.Round((rnd.Float64()*3+1)*10) / 10, Unit: "ppb", Source: "NASA TEMPO"},
	}

	c := aqi.Categorize(r.Engine.AQI)
	r.Summary = provider.AQISummary{
		AQI:      r.Engine.AQI,
		Category: c.Label,
		Comment:  c.Recommendation,
	}
}

func fallbackReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "provider timed out"
	}
	return err.Error()
}

func alertsFor(v float64, rnd RandomSource) []Alert {
	alerts := []Alert{}
	if v > 100 {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Message: "Unhealthy for Sensitive Groups - Limit prolonged outdoor activities",
			Time:    "Now",
		})
	}
	if v > 200 {
		alerts = append(alerts, Alert{
			Level:   "alert",
			Message: "Very Unhealthy - Everyone should avoid outdoor activities",
			Time:    "Now",
		})
	}
	if rnd.Float64() > 0.7 {
		alerts = append(alerts, Alert{
			Level:   "info",
			Message: "Ozone levels expected to rise in the afternoon",
			Time:    "2 hours",
		})
	}
	return alerts
}

// forecastFor builds the hourly outlook starting at start. Hour i carries
// base + 30*sin(i/4), clamped to the AQI scale.
func forecastFor(base float64, start time.Time, rnd RandomSource) []ForecastPoint {
	out := make([]ForecastPoint, ForecastHours)
	for i := range out {
		at := start.Add(time.Duration(i) * time.Hour)
		out[i] = ForecastPoint{
			Time: fmt.Sprintf("%d:00", at.Hour()),
			At:   at,
			AQI:  aqi.Clamp(base + math.Sin(float64(i)/4)*30),
			PM25: float64(rnd.Intn(50) + 10),
			NO2:  float64(rnd.Intn(40) + 5),
			O3:   float64(rnd.Intn(60) + 20),
		}
	}
	return out
}
