package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chrissnell/airwatch/pkg/aqi"
	"go.uber.org/zap"
)

const (
	DefaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	DefaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
)

// OpenMeteoProvider queries the public Open-Meteo forecast and air-quality
// APIs directly.
type OpenMeteoProvider struct {
	forecastURL   string
	airQualityURL string
	client        *http.Client
	logger        *zap.SugaredLogger
}

type openMeteoForecast struct {
	Current *struct {
		Temperature *float64 `json:"temperature_2m"`
		Humidity    *float64 `json:"relative_humidity_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
}

type openMeteoAirQuality struct {
	Hourly *struct {
		Time  []string   `json:"time"`
		PM25  []*float64 `json:"pm2_5"`
		PM10  []*float64 `json:"pm10"`
		NO2   []*float64 `json:"nitrogen_dioxide"`
		SO2   []*float64 `json:"sulphur_dioxide"`
		Ozone []*float64 `json:"ozone"`
	} `json:"hourly"`
}

// NewOpenMeteoProvider creates an Open-Meteo client. Empty URLs select the
// public endpoints.
func NewOpenMeteoProvider(forecastURL, airQualityURL string, timeout time.Duration, logger *zap.SugaredLogger) *OpenMeteoProvider {
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if airQualityURL == "" {
		airQualityURL = DefaultAirQualityURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenMeteoProvider{
		forecastURL:   forecastURL,
		airQualityURL: airQualityURL,
		client:        &http.Client{Timeout: timeout},
		logger:        logger.Named("provider.openmeteo"),
	}
}

func (o *OpenMeteoProvider) Name() string {
	return "openmeteo"
}

func coordinates(lat, lng float64) url.Values {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	return v
}

// FetchWeather retrieves current conditions from the forecast API
func (o *OpenMeteoProvider) FetchWeather(ctx context.Context, lat, lng float64) (Weather, error) {
	v := coordinates(lat, lng)
	v.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code")

	var p openMeteoForecast
	if err := getJSON(ctx, o.client, o.logger, o.forecastURL+"?"+v.Encode(), &p); err != nil {
		return Weather{}, err
	}

	c := p.Current
	switch {
	case c == nil:
		return Weather{}, missing("current")
	case c.Temperature == nil:
		return Weather{}, missing("current.temperature_2m")
	case c.Humidity == nil:
		return Weather{}, missing("current.relative_humidity_2m")
	case c.WindSpeed == nil:
		return Weather{}, missing("current.wind_speed_10m")
	}

	condition := "Unknown"
	if c.WeatherCode != nil {
		condition = WeatherCondition(*c.WeatherCode)
	}

	return Weather{
		Temperature: *c.Temperature,
		Humidity:    *c.Humidity,
		WindSpeed:   *c.WindSpeed,
		Condition:   condition,
	}, nil
}

// first returns the first hour of an hourly series, or nil
func first(series []*float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	return series[0]
}

func (o *OpenMeteoProvider) fetchAirQuality(ctx context.Context, lat, lng float64) (Pollutants, error) {
	v := coordinates(lat, lng)
	v.Set("hourly", "pm2_5,pm10,nitrogen_dioxide,sulphur_dioxide,ozone")
	v.Set("forecast_days", "1")

	var p openMeteoAirQuality
	if err := getJSON(ctx, o.client, o.logger, o.airQualityURL+"?"+v.Encode(), &p); err != nil {
		return Pollutants{}, err
	}

	h := p.Hourly
	if h == nil {
		return Pollutants{}, missing("hourly")
	}
	if first(h.PM25) == nil {
		return Pollutants{}, missing("hourly.pm2_5")
	}

	const source = "Open-Meteo"
	return Pollutants{
		PM25: measurement(first(h.PM25), unitMicrograms, source),
		PM10: measurement(first(h.PM10), unitMicrograms, source),
		NO2:  measurement(first(h.NO2), unitMicrograms, source),
		SO2:  measurement(first(h.SO2), unitMicrograms, source),
		O3:   measurement(first(h.Ozone), unitMicrograms, source),
	}, nil
}

// FetchPollutants retrieves the current hour's concentrations
func (o *OpenMeteoProvider) FetchPollutants(ctx context.Context, lat, lng float64) (Pollutants, error) {
	return o.fetchAirQuality(ctx, lat, lng)
}

// FetchAQISummary derives the EPA AQI from the current hour's particulate
// readings. The dominant pollutant is the one with the larger sub-index.
func (o *OpenMeteoProvider) FetchAQISummary(ctx context.Context, lat, lng float64) (AQISummary, error) {
	p, err := o.fetchAirQuality(ctx, lat, lng)
	if err != nil {
		return AQISummary{}, err
	}
	return SummarizeParticulates(p), nil
}

// SummarizeParticulates computes an AQI summary from PM2.5 and, when present, PM10
func SummarizeParticulates(p Pollutants) AQISummary {
	var index int32
	dominant := ""
	if p.PM25 != nil {
		index = aqi.CalculatePM25(p.PM25.Value)
		dominant = "pm25"
	}
	if p.PM10 != nil {
		if sub := aqi.CalculatePM10(p.PM10.Value); sub > index || dominant == "" {
			index = sub
			dominant = "pm10"
		}
	}
	c := aqi.Categorize(float64(index))
	return AQISummary{
		AQI:               float64(index),
		Category:          c.Label,
		Comment:           c.Recommendation,
		DominantPollutant: dominant,
	}
}

var wmoConditions = map[int]string{
	0:  "Clear Sky",
	1:  "Mainly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing Rime Fog",
	51: "Light Drizzle",
	53: "Moderate Drizzle",
	55: "Dense Drizzle",
	56: "Light Freezing Drizzle",
	57: "Dense Freezing Drizzle",
	61: "Slight Rain",
	63: "Moderate Rain",
	65: "Heavy Rain",
	66: "Light Freezing Rain",
	67: "Heavy Freezing Rain",
	71: "Slight Snow",
	73: "Moderate Snow",
	75: "Heavy Snow",
	77: "Snow Grains",
	80: "Slight Rain Showers",
	81: "Moderate Rain Showers",
	82: "Violent Rain Showers",
	85: "Slight Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm",
	96: "Thunderstorm with Slight Hail",
	99: "Thunderstorm with Heavy Hail",
}

// WeatherCondition maps a WMO weather interpretation code to a label
func WeatherCondition(code int) string {
	if c, ok := wmoConditions[code]; ok {
		return c
	}
	return fmt.Sprintf("Unknown (%d)", code)
}
