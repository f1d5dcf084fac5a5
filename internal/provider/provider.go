// Package provider fetches live weather, pollutant and AQI readings for a
// coordinate from external HTTP services.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is the per-request timeout used when none is configured
const DefaultTimeout = 5 * time.Second

var (
	// ErrProviderUnavailable covers transport failures, timeouts and non-2xx responses
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrMalformedResponse is returned when a payload cannot be decoded or lacks required fields
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Weather is the current weather at a coordinate
type Weather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
}

// Measurement is one pollutant concentration
type Measurement struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Source string  `json:"source,omitempty"`
}

// Pollutants holds whichever concentrations the provider reported
type Pollutants struct {
	PM25 *Measurement `json:"pm25,omitempty"`
	PM10 *Measurement `json:"pm10,omitempty"`
	NO2  *Measurement `json:"no2,omitempty"`
	SO2  *Measurement `json:"so2,omitempty"`
	O3   *Measurement `json:"o3,omitempty"`
	HCHO *Measurement `json:"hcho,omitempty"`
}

// AQISummary is the provider's headline AQI for a coordinate
type AQISummary struct {
	AQI               float64 `json:"aqi"`
	Category          string  `json:"category"`
	Comment           string  `json:"comment,omitempty"`
	DominantPollutant string  `json:"dominant_pollutant,omitempty"`
}

// Provider is an external source of live readings
type Provider interface {
	Name() string
	FetchWeather(ctx context.Context, lat, lng float64) (Weather, error)
	FetchPollutants(ctx context.Context, lat, lng float64) (Pollutants, error)
	FetchAQISummary(ctx context.Context, lat, lng float64) (AQISummary, error)
}

const unitMicrograms = "µg/m³"

func measurement(v *float64, unit, source string) *Measurement {
	if v == nil {
		return nil
	}
	return &Measurement{Value: *v, Unit: unit, Source: source}
}

// getJSON performs a GET against url and decodes the JSON body into target
func getJSON(ctx context.Context, client *http.Client, logger *zap.SugaredLogger, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: error creating request: %v", ErrProviderUnavailable, err)
	}

	logger.Debugf("Making request to provider: %v", url)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: error making request: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s responded with status %s", ErrProviderUnavailable, url, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: unable to decode response: %v", ErrMalformedResponse, err)
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrMalformedResponse, field)
}

// Disabled is a Provider that always reports ErrProviderUnavailable. It is
// used when no provider is configured, so every query takes the local path.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) FetchWeather(ctx context.Context, lat, lng float64) (Weather, error) {
	return Weather{}, fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
}

func (Disabled) FetchPollutants(ctx context.Context, lat, lng float64) (Pollutants, error) {
	return Pollutants{}, fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
}

func (Disabled) FetchAQISummary(ctx context.Context, lat, lng float64) (AQISummary, error) {
	return AQISummary{}, fmt.Errorf("%w: no provider configured", ErrProviderUnavailable)
}
