package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/airwatch/internal/interpolate"
	"github.com/chrissnell/airwatch/internal/log"
	"github.com/chrissnell/airwatch/internal/query"
	"github.com/chrissnell/airwatch/internal/render"
	"github.com/chrissnell/airwatch/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Services are the engine components exposed over HTTP
type Services struct {
	Engine  *interpolate.Engine
	Overlay *render.Overlay
	Facade  *query.Facade
}

// Controller represents the REST server controller
type Controller struct {
	ctx          context.Context
	wg           *sync.WaitGroup
	serverConfig config.ServerData
	renderConfig config.RenderData
	Server       http.Server
	services     Services
	providerName string
	httpLog      *log.HTTPLogBuffer
	logger       *zap.SugaredLogger
	handlers     *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, sc config.ServerData, rc config.RenderData, providerName string, svc Services, logger *zap.SugaredLogger) (*Controller, error) {
	if svc.Engine == nil || svc.Overlay == nil || svc.Facade == nil {
		return nil, fmt.Errorf("REST server requires an engine, an overlay and a query facade")
	}

	ctrl := &Controller{
		ctx:          ctx,
		wg:           wg,
		serverConfig: sc,
		renderConfig: rc,
		services:     svc,
		providerName: providerName,
		httpLog:      log.NewHTTPLogBuffer(1000),
		logger:       logger.Named("rest"),
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if sc.ListenAddr == "" {
		ctrl.logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.serverConfig.ListenAddr = "0.0.0.0"
	}
	if sc.Port == 0 {
		ctrl.logger.Info("server.port not provided; defaulting to 8080")
		ctrl.serverConfig.Port = 8080
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.serverConfig.ListenAddr, ctrl.serverConfig.Port)
	ctrl.Server.Handler = log.AccessLog(ctrl.logger, ctrl.httpLog, ctrl.recovery()(ctrl.setupRouter()))
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %v", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		var err error
		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			err = c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Server.Shutdown(ctx)
	}()

	return nil
}

// panicLogger adapts zap to the recovery handler's logger interface
type panicLogger struct {
	logger *zap.SugaredLogger
}

func (p panicLogger) Println(args ...interface{}) {
	p.logger.Errorln(args...)
}

func (c *Controller) recovery() func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{c.logger}))
}

// Handler returns the server's root handler, access logging included
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/aqi", c.handlers.GetAQI).Methods(http.MethodGet)
	router.HandleFunc("/location", c.handlers.GetLocation).Methods(http.MethodGet)
	router.HandleFunc("/hotspots", c.handlers.GetHotspots).Methods(http.MethodGet)
	router.HandleFunc("/categories", c.handlers.GetCategories).Methods(http.MethodGet)

	router.HandleFunc("/overlay", c.handlers.GetOverlay).Methods(http.MethodGet)
	router.HandleFunc("/overlay/show", c.handlers.ShowOverlay).Methods(http.MethodPost)
	router.HandleFunc("/overlay/hide", c.handlers.HideOverlay).Methods(http.MethodPost)
	router.HandleFunc("/overlay.png", c.handlers.GetOverlayPNG).Methods(http.MethodGet)

	router.HandleFunc("/requests", c.handlers.GetRequests).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(c.handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(c.handlers.MethodNotAllowed)

	return router
}
