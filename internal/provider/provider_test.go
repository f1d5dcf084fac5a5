package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newBackendServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("latitude") != "28.6" || r.URL.Query().Get("longitude") != "77.2" {
				http.Error(w, `{"message":"bad coordinates"}`, http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBackendProvider(t *testing.T) {
	srv := newBackendServer(t, map[string]string{
		"/current-weather": `{"temperature": 31.5, "humidity": 40, "wind_speed": 7.2, "condition": "Haze"}`,
		"/air-quality":     `{"pm2.5": 88.1, "pm10": 140.0, "no2": 31.2, "so2": 4.4}`,
		"/aqi":             `{"aqi": 168, "category": "Unhealthy", "comment": "Limit exertion", "dominant_pollutant": "pm25"}`,
	})
	p := NewBackendProvider(srv.URL+"/", time.Second, zap.NewNop().Sugar())
	ctx := context.Background()

	w, err := p.FetchWeather(ctx, 28.6, 77.2)
	if err != nil {
		t.Fatalf("FetchWeather: %v", err)
	}
	if w.Temperature != 31.5 || w.Humidity != 40 || w.WindSpeed != 7.2 || w.Condition != "Haze" {
		t.Errorf("unexpected weather %+v", w)
	}

	pol, err := p.FetchPollutants(ctx, 28.6, 77.2)
	if err != nil {
		t.Fatalf("FetchPollutants: %v", err)
	}
	if pol.PM25 == nil || pol.PM25.Value != 88.1 || pol.PM25.Unit != unitMicrograms {
		t.Errorf("unexpected pm25 %+v", pol.PM25)
	}
	if pol.SO2 == nil || pol.SO2.Value != 4.4 {
		t.Errorf("unexpected so2 %+v", pol.SO2)
	}
	if pol.O3 != nil {
		t.Errorf("o3 should be absent, got %+v", pol.O3)
	}

	s, err := p.FetchAQISummary(ctx, 28.6, 77.2)
	if err != nil {
		t.Fatalf("FetchAQISummary: %v", err)
	}
	if s.AQI != 168 || s.Category != "Unhealthy" || s.DominantPollutant != "pm25" {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestBackendProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, ErrProviderUnavailable},
		{"not found", http.StatusNotFound, `{"message":"Weather data not found"}`, ErrProviderUnavailable},
		{"invalid json", http.StatusOK, `{"temperature":`, ErrMalformedResponse},
		{"missing field", http.StatusOK, `{"humidity": 40, "wind_speed": 3}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			p := NewBackendProvider(srv.URL, time.Second, zap.NewNop().Sugar())
			_, err := p.FetchWeather(context.Background(), 1, 2)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBackendProviderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := NewBackendProvider(srv.URL, 50*time.Millisecond, zap.NewNop().Sugar())
	if _, err := p.FetchAQISummary(context.Background(), 0, 0); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestBackendProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewBackendProvider(url, time.Second, zap.NewNop().Sugar())
	if _, err := p.FetchPollutants(context.Background(), 0, 0); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestOpenMeteoProvider(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current") == "" {
			http.Error(w, "missing current", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"current": {"time": "2024-05-01T12:00", "temperature_2m": 22.4, "relative_humidity_2m": 61, "wind_speed_10m": 11.3, "weather_code": 2}}`)
	})
	mux.HandleFunc("/v1/air-quality", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hourly": {"time": ["2024-05-01T00:00", "2024-05-01T01:00"], "pm2_5": [35.4, 40], "pm10": [254, 260], "nitrogen_dioxide": [18.5, 19], "sulphur_dioxide": [null, 2], "ozone": [60.1, 58]}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.URL+"/v1/forecast", srv.URL+"/v1/air-quality", time.Second, zap.NewNop().Sugar())
	ctx := context.Background()

	w, err := p.FetchWeather(ctx, 10, 20)
	if err != nil {
		t.Fatalf("FetchWeather: %v", err)
	}
	if w.Temperature != 22.4 || w.Humidity != 61 || w.WindSpeed != 11.3 || w.Condition != "Partly Cloudy" {
		t.Errorf("unexpected weather %+v", w)
	}

	pol, err := p.FetchPollutants(ctx, 10, 20)
	if err != nil {
		t.Fatalf("FetchPollutants: %v", err)
	}
	if pol.PM25 == nil || pol.PM25.Value != 35.4 {
		t.Errorf("expected first hour pm2.5, got %+v", pol.PM25)
	}
	if pol.SO2 != nil {
		t.Errorf("null so2 should be absent, got %+v", pol.SO2)
	}
	if pol.O3 == nil || pol.O3.Value != 60.1 {
		t.Errorf("unexpected ozone %+v", pol.O3)
	}

	s, err := p.FetchAQISummary(ctx, 10, 20)
	if err != nil {
		t.Fatalf("FetchAQISummary: %v", err)
	}
	// PM2.5 35.4 is index 100, PM10 254 is index 150
	if s.AQI != 150 || s.DominantPollutant != "pm10" || s.Category != "Unhealthy for Sensitive Groups" {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestOpenMeteoMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hourly": {"time": [], "pm2_5": []}}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.URL, srv.URL, time.Second, zap.NewNop().Sugar())
	if _, err := p.FetchPollutants(context.Background(), 0, 0); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
	if _, err := p.FetchWeather(context.Background(), 0, 0); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for missing current block, got %v", err)
	}
}

func TestSummarizeParticulates(t *testing.T) {
	pm := func(v float64) *Measurement { return &Measurement{Value: v, Unit: unitMicrograms} }

	tests := []struct {
		name     string
		in       Pollutants
		aqi      float64
		dominant string
	}{
		{"pm25 only", Pollutants{PM25: pm(12)}, 50, "pm25"},
		{"pm25 dominates", Pollutants{PM25: pm(55.4), PM10: pm(54)}, 150, "pm25"},
		{"pm10 dominates", Pollutants{PM25: pm(12), PM10: pm(154)}, 100, "pm10"},
		{"nothing", Pollutants{}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SummarizeParticulates(tt.in)
			if s.AQI != tt.aqi || s.DominantPollutant != tt.dominant {
				t.Errorf("got %+v, expected aqi %v dominant %q", s, tt.aqi, tt.dominant)
			}
		})
	}
}

func TestWeatherCondition(t *testing.T) {
	if got := WeatherCondition(0); got != "Clear Sky" {
		t.Errorf("WeatherCondition(0) = %q", got)
	}
	if got := WeatherCondition(42); got != "Unknown (42)" {
		t.Errorf("WeatherCondition(42) = %q", got)
	}
}

func TestDisabled(t *testing.T) {
	var p Provider = Disabled{}
	if _, err := p.FetchWeather(context.Background(), 0, 0); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}
