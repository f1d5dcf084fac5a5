package interpolate

import (
	"math"
	"testing"

	"github.com/chrissnell/airwatch/internal/hotspot"
	"github.com/chrissnell/airwatch/pkg/aqi"
)

const epsilon = 1e-12

var delhi = hotspot.Hotspot{Name: "Delhi", Latitude: 28.6, Longitude: 77.2, Intensity: 0.9, Radius: 5}

func TestSingleHotspotCentre(t *testing.T) {
	e := New(hotspot.MustCatalog([]hotspot.Hotspot{delhi}))

	b := e.Breakdown(28.6, 77.2)
	if b.TotalWeight != 1 {
		t.Fatalf("TotalWeight = %v, expected exactly 1 at the centre", b.TotalWeight)
	}
	if b.FarField {
		t.Fatalf("centre should not be far field")
	}

	base := 0.08 + (1-28.6/90)*0.05
	noise := 0.5 * (math.Sin(28.6*0.5+77.2*0.3)*0.08 + math.Cos(28.6*0.3-77.2*0.4)*0.06)
	want := 0.9*0.85 + base*0.15 + noise*0.08

	if got := e.IntensityAt(28.6, 77.2); math.Abs(got-want) > epsilon {
		t.Errorf("IntensityAt = %.15f, expected %.15f", got, want)
	}
	if got := e.AQIAt(28.6, 77.2); math.Abs(got-want*300) > 1e-9 {
		t.Errorf("AQIAt = %.12f, expected %.12f", got, want*300)
	}
	if got := e.IntensityAt(28.6, 77.2); got == delhi.Intensity {
		t.Errorf("centre returned the raw hotspot intensity unblended")
	}
}

func TestEmptyCatalogIsBaselinePlusNoise(t *testing.T) {
	e := New(hotspot.MustCatalog(nil))

	for lat := -90.0; lat <= 90; lat += 15 {
		for lng := -180.0; lng <= 180; lng += 20 {
			b := e.Breakdown(lat, lng)
			if !b.FarField || b.TotalWeight != 0 {
				t.Fatalf("(%v,%v): expected far field with zero weight, got %+v", lat, lng, b)
			}
			want := clampUnit(Baseline(lat) + Noise(lat, lng)*0.2)
			if math.Abs(b.Intensity-want) > epsilon {
				t.Fatalf("(%v,%v): intensity %v, expected %v", lat, lng, b.Intensity, want)
			}
			// Removing the noise term leaves a value that depends on latitude only
			if residual := b.Intensity - Noise(lat, lng)*0.2; math.Abs(residual-Baseline(lat)) > epsilon {
				t.Fatalf("(%v,%v): residual %v depends on longitude", lat, lng, residual)
			}
		}
	}
}

func TestFarFieldBehaviour(t *testing.T) {
	e := New(hotspot.MustCatalog([]hotspot.Hotspot{delhi}))

	// 12x the radius away from the only hotspot
	lat, lng := 28.6, 77.2-60
	b := e.Breakdown(lat, lng)
	if b.TotalWeight >= 0.005 {
		t.Fatalf("TotalWeight = %v, expected < 0.005", b.TotalWeight)
	}
	want := Baseline(lat) + Noise(lat, lng)*0.2
	if math.Abs(b.Intensity-want) > epsilon {
		t.Errorf("far field intensity = %v, expected %v", b.Intensity, want)
	}
}

func TestLocality(t *testing.T) {
	hotspots := []hotspot.Hotspot{
		delhi,
		{Name: "Cairo", Latitude: 30.0, Longitude: 31.2, Intensity: 0.7, Radius: 4},
		{Name: "Mexico City", Latitude: 19.4, Longitude: -99.1, Intensity: 0.6, Radius: 3},
	}
	e := New(hotspot.MustCatalog(hotspots))

	for _, h := range hotspots {
		centre := e.AQIAt(h.Latitude, h.Longitude)
		// Far from every hotspot: the south Pacific
		far := e.Breakdown(-50, -140)
		if !far.FarField {
			t.Fatalf("reference point is not far field: %+v", far)
		}
		if centre <= far.AQI {
			t.Errorf("%s: centre AQI %v not greater than far-field AQI %v", h.Name, centre, far.AQI)
		}
	}
}

func TestOutputAlwaysInRange(t *testing.T) {
	saturated := hotspot.MustCatalog([]hotspot.Hotspot{
		{Latitude: 0, Longitude: 0, Intensity: 1, Radius: 50},
		{Latitude: 0, Longitude: 1, Intensity: 1, Radius: 50},
	})

	for _, c := range []*hotspot.Catalog{hotspot.Reference(), saturated, hotspot.MustCatalog(nil)} {
		e := New(c)
		for lat := -95.0; lat <= 95; lat += 2.5 {
			for lng := -185.0; lng <= 185; lng += 5 {
				s := e.Sample(lat, lng)
				if s.Intensity < 0 || s.Intensity > 1 {
					t.Fatalf("intensity %v out of range at (%v,%v)", s.Intensity, lat, lng)
				}
				if s.AQI < 0 || s.AQI > 300 {
					t.Fatalf("aqi %v out of range at (%v,%v)", s.AQI, lat, lng)
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	e := New(hotspot.Reference())
	for _, p := range [][2]float64{{28.6, 77.2}, {0, 0}, {-33.9, 151.2}, {89.9, -179.9}} {
		a := e.AQIAt(p[0], p[1])
		b := e.AQIAt(p[0], p[1])
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Errorf("AQIAt(%v,%v) not bit-identical: %v vs %v", p[0], p[1], a, b)
		}
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	e := New(hotspot.Reference())
	for lat := -80.0; lat <= 80; lat += 10 {
		for lng := -170.0; lng <= 170; lng += 10 {
			v := e.AQIAt(lat, lng)
			var want aqi.Band
			switch {
			case v <= 50:
				want = aqi.Good
			case v <= 100:
				want = aqi.Moderate
			case v <= 150:
				want = aqi.SensitiveUnhealthy
			case v <= 200:
				want = aqi.Unhealthy
			case v <= 300:
				want = aqi.VeryUnhealthy
			default:
				want = aqi.Hazardous
			}
			if got := aqi.Categorize(v).Band; got != want {
				t.Errorf("aqi %v at (%v,%v): band %v, expected %v", v, lat, lng, got, want)
			}
		}
	}
}

func TestNoiseBounds(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 0.5 {
		for lng := -180.0; lng <= 180; lng += 0.5 {
			n := Noise(lat, lng)
			if n < -0.07-epsilon || n > 0.07+epsilon {
				t.Fatalf("Noise(%v,%v) = %v outside [-0.07,0.07]", lat, lng, n)
			}
		}
	}
}

func TestBaseline(t *testing.T) {
	tests := []struct {
		lat  float64
		want float64
	}{
		{0, 0.13},
		{90, 0.08},
		{-90, 0.08},
		{45, 0.105},
	}
	for _, tt := range tests {
		if got := Baseline(tt.lat); math.Abs(got-tt.want) > epsilon {
			t.Errorf("Baseline(%v) = %v, expected %v", tt.lat, got, tt.want)
		}
	}
}
