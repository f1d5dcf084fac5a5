package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBackendURL is where the prediction backend listens by default
const DefaultBackendURL = "http://127.0.0.1:5001"

// BackendProvider talks to the prediction backend's /current-weather,
// /air-quality and /aqi endpoints.
type BackendProvider struct {
	baseURL string
	client  *http.Client
	logger  *zap.SugaredLogger
}

type backendWeather struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	WindSpeed   *float64 `json:"wind_speed"`
	Condition   string   `json:"condition"`
}

type backendAirQuality struct {
	PM25 *float64 `json:"pm2.5"`
	PM10 *float64 `json:"pm10"`
	NO2  *float64 `json:"no2"`
	SO2  *float64 `json:"so2"`
	O3   *float64 `json:"o3"`
}

type backendAQI struct {
	AQI               *float64 `json:"aqi"`
	Category          string   `json:"category"`
	Comment           string   `json:"comment"`
	DominantPollutant string   `json:"dominant_pollutant"`
}

// NewBackendProvider creates a client for the backend at baseURL
func NewBackendProvider(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) *BackendProvider {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BackendProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("provider.backend"),
	}
}

// Name identifies the provider in reports
func (b *BackendProvider) Name() string {
	return "backend"
}

func (b *BackendProvider) endpoint(path string, lat, lng float64) string {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	return b.baseURL + path + "?" + v.Encode()
}

// FetchWeather retrieves current weather from /current-weather
func (b *BackendProvider) FetchWeather(ctx context.Context, lat, lng float64) (Weather, error) {
	var p backendWeather
	if err := getJSON(ctx, b.client, b.logger, b.endpoint("/current-weather", lat, lng), &p); err != nil {
		return Weather{}, err
	}
	switch {
	case p.Temperature == nil:
		return Weather{}, missing("temperature")
	case p.Humidity == nil:
		return Weather{}, missing("humidity")
	case p.WindSpeed == nil:
		return Weather{}, missing("wind_speed")
	}
	return Weather{
		Temperature: *p.Temperature,
		Humidity:    *p.Humidity,
		WindSpeed:   *p.WindSpeed,
		Condition:   p.Condition,
	}, nil
}

// FetchPollutants retrieves concentrations from /air-quality
func (b *BackendProvider) FetchPollutants(ctx context.Context, lat, lng float64) (Pollutants, error) {
	var p backendAirQuality
	if err := getJSON(ctx, b.client, b.logger, b.endpoint("/air-quality", lat, lng), &p); err != nil {
		return Pollutants{}, err
	}
	if p.PM25 == nil {
		return Pollutants{}, missing("pm2.5")
	}
	const source = "Open-Meteo"
	return Pollutants{
		PM25: measurement(p.PM25, unitMicrograms, source),
		PM10: measurement(p.PM10, unitMicrograms, source),
		NO2:  measurement(p.NO2, unitMicrograms, source),
		SO2:  measurement(p.SO2, unitMicrograms, source),
		O3:   measurement(p.O3, unitMicrograms, source),
	}, nil
}

// FetchAQISummary retrieves the headline AQI from /aqi
func (b *BackendProvider) FetchAQISummary(ctx context.Context, lat, lng float64) (AQISummary, error) {
	var p backendAQI
	if err := getJSON(ctx, b.client, b.logger, b.endpoint("/aqi", lat, lng), &p); err != nil {
		return AQISummary{}, err
	}
	if p.AQI == nil {
		return AQISummary{}, missing("aqi")
	}
	return AQISummary{
		AQI:               *p.AQI,
		Category:          p.Category,
		Comment:           p.Comment,
		DominantPollutant: p.DominantPollutant,
	}, nil
}
