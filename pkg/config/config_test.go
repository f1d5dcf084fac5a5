package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/airwatch/internal/hotspot"
)

const sampleYAML = `
server:
  listen_addr: 127.0.0.1
  port: 9090
provider:
  type: openmeteo
  timeout: 2s
render:
  width: 360
  height: 180
  blur_radius: 3
hotspots:
  - name: Delhi
    latitude: 28.6
    longitude: 77.2
    intensity: 0.9
    radius: 5
  - name: Cairo
    latitude: 30.0
    longitude: 31.2
    intensity: 0.7
    radius: 4
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestYAMLProvider(t *testing.T) {
	p := NewYAMLProvider(writeFile(t, "airwatch.yaml", sampleYAML))
	defer p.Close()

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Server.ListenAddr != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server section %+v", cfg.Server)
	}
	if cfg.Provider.Type != ProviderOpenMeteo {
		t.Errorf("provider type = %q", cfg.Provider.Type)
	}
	if d, _ := cfg.ProviderTimeout(); d != 2*time.Second {
		t.Errorf("timeout = %v", d)
	}
	if cfg.Render.Width != 360 || cfg.Render.BlurRadius != 3 || cfg.Render.Alpha != DefaultAlpha {
		t.Errorf("unexpected render section %+v", cfg.Render)
	}

	hotspots, err := p.GetHotspots()
	if err != nil {
		t.Fatalf("GetHotspots: %v", err)
	}
	if len(hotspots) != 2 || hotspots[0].Name != "Delhi" || hotspots[1].Radius != 4 {
		t.Errorf("unexpected hotspots %+v", hotspots)
	}
	if !p.IsReadOnly() {
		t.Errorf("YAML provider should be read-only")
	}
}

func TestYAMLProviderRejectsUnknownKeys(t *testing.T) {
	p := NewYAMLProvider(writeFile(t, "bad.yaml", "server:\n  prot: 80\n"))
	if _, err := p.LoadConfig(); err == nil {
		t.Errorf("expected an error for a misspelled key")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	p := NewYAMLProvider(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := p.LoadConfig(); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg ConfigData
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Server.Port != DefaultPort || cfg.Provider.Type != ProviderBackend || cfg.Render.Width != DefaultWidth {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	c, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if c.Len() != hotspot.Reference().Len() {
		t.Errorf("empty hotspot list should use the reference catalog")
	}
}

func TestBlurRadiusDefaults(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultBlurRadius},
		{-1, -1},
		{4, 4},
	}
	for _, tt := range tests {
		var cfg ConfigData
		cfg.Render.BlurRadius = tt.in
		cfg.ApplyDefaults()
		if cfg.Render.BlurRadius != tt.want {
			t.Errorf("blur_radius %d became %d, expected %d", tt.in, cfg.Render.BlurRadius, tt.want)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("blur_radius %d: %v", tt.in, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigData)
		errSub string
	}{
		{"bad provider", func(c *ConfigData) { c.Provider.Type = "carrier-pigeon" }, "unknown provider"},
		{"bad timeout", func(c *ConfigData) { c.Provider.Timeout = "soon" }, "invalid provider timeout"},
		{"zero timeout", func(c *ConfigData) { c.Provider.Timeout = "0s" }, "must be positive"},
		{"huge width", func(c *ConfigData) { c.Render.Width = 100000 }, "out of range"},
		{"alpha", func(c *ConfigData) { c.Render.Alpha = 300 }, "alpha"},
		{"cert without key", func(c *ConfigData) { c.Server.Cert = "/etc/cert.pem" }, "cert and key"},
		{"bad hotspot", func(c *ConfigData) {
			c.Hotspots = []hotspot.Hotspot{{Name: "x", Latitude: 100, Intensity: 0.5, Radius: 1}}
		}, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg ConfigData
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("expected error containing %q, got %v", tt.errSub, err)
			}
		})
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	y := NewYAMLProvider(writeFile(t, "airwatch.yaml", sampleYAML))
	want, err := y.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	s, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "airwatch.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer s.Close()

	if err := s.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if err := s.SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	// Saving twice replaces rather than duplicates
	if err := s.SaveConfig(want); err != nil {
		t.Fatalf("second SaveConfig: %v", err)
	}

	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Server != want.Server || got.Provider != want.Provider || got.Render != want.Render {
		t.Errorf("sections differ:\n got  %+v\n want %+v", got, want)
	}
	if len(got.Hotspots) != len(want.Hotspots) {
		t.Fatalf("got %d hotspots, expected %d", len(got.Hotspots), len(want.Hotspots))
	}
	for i := range want.Hotspots {
		if got.Hotspots[i] != want.Hotspots[i] {
			t.Errorf("hotspot %d: got %+v, expected %+v", i, got.Hotspots[i], want.Hotspots[i])
		}
	}
	if s.IsReadOnly() {
		t.Errorf("SQLite provider should be writable")
	}
}

func TestSQLiteEmptyDatabase(t *testing.T) {
	s, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer s.Close()
	if err := s.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Hotspots) != 0 || cfg.Server.Port != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults on empty database do not validate: %v", err)
	}
}
