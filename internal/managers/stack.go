package managers

import (
	"fmt"

	"github.com/chrissnell/airwatch/internal/controllers/restserver"
	"github.com/chrissnell/airwatch/internal/interpolate"
	"github.com/chrissnell/airwatch/internal/provider"
	"github.com/chrissnell/airwatch/internal/query"
	"github.com/chrissnell/airwatch/internal/render"
	"github.com/chrissnell/airwatch/pkg/config"
	"go.uber.org/zap"
)

// Stack holds the engine components built from a configuration
type Stack struct {
	Engine   *interpolate.Engine
	Renderer *render.Renderer
	Overlay  *render.Overlay
	Provider provider.Provider
	Facade   *query.Facade
}

// Services returns the components the REST server exposes
func (s *Stack) Services() restserver.Services {
	return restserver.Services{Engine: s.Engine, Overlay: s.Overlay, Facade: s.Facade}
}

// NewProvider creates the live data provider named by cfg.Type
func NewProvider(cfg config.ProviderData, logger *zap.SugaredLogger) (provider.Provider, error) {
	timeout := provider.DefaultTimeout
	if cfg.Timeout != "" {
		c := config.ConfigData{Provider: cfg}
		d, err := c.ProviderTimeout()
		if err != nil {
			return nil, err
		}
		timeout = d
	}

	switch cfg.Type {
	case config.ProviderBackend, "":
		return provider.NewBackendProvider(cfg.BaseURL, timeout, logger), nil
	case config.ProviderOpenMeteo:
		return provider.NewOpenMeteoProvider(cfg.BaseURL, cfg.AirQualityURL, timeout, logger), nil
	case config.ProviderNone:
		return provider.Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", cfg.Type)
	}
}

// NewStack builds the engine, renderer, overlay, provider and query facade.
// Defaults must already be applied to c.
func NewStack(c *config.ConfigData, logger *zap.SugaredLogger) (*Stack, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, fmt.Errorf("error building hotspot catalog: %w", err)
	}

	p, err := NewProvider(c.Provider, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}

	timeout, err := c.ProviderTimeout()
	if err != nil {
		return nil, err
	}

	alpha := c.Render.Alpha
	if alpha < 0 || alpha > 255 {
		return nil, fmt.Errorf("render alpha %d outside [0,255]", alpha)
	}

	s := &Stack{
		Engine:   interpolate.New(catalog),
		Provider: p,
	}
	s.Renderer = render.NewRenderer(s.Engine, render.Options{
		Alpha:      uint8(alpha),
		BlurRadius: c.Render.BlurRadius,
		Workers:    c.Render.Workers,
	}, logger)
	s.Overlay = render.NewOverlay(s.Renderer, logger)
	s.Facade = query.NewFacade(p, s.Engine, nil, timeout, logger)

	logger.Infow("engine ready",
		"hotspots", catalog.Len(),
		"max_radius", catalog.MaxRadius(),
		"provider", p.Name(),
		"render_workers", s.Renderer.Options().Workers,
	)
	return s, nil
}
