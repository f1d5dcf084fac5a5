package restserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chrissnell/airwatch/internal/render"
	"github.com/chrissnell/airwatch/internal/spatial"
	"github.com/chrissnell/airwatch/pkg/aqi"
	"github.com/chrissnell/airwatch/pkg/responseformat"
)

// errBadParameter marks request parameter problems that map to 400
var errBadParameter = errors.New("bad parameter")

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error writing response for %v: %v", req.URL.Path, err)
	}
}

func (h *Handlers) fail(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadParameter),
		errors.Is(err, spatial.ErrInvalidCoordinate),
		errors.Is(err, render.ErrInvalidDimensions):
		status = http.StatusBadRequest
	case errors.Is(err, render.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		h.controller.logger.Errorf("error handling %v: %v", req.URL.Path, err)
	}
	if werr := h.formatter.WriteError(w, req, status, err); werr != nil {
		h.controller.logger.Errorf("error writing error response for %v: %v", req.URL.Path, werr)
	}
}

// floatParam parses a required float query parameter
func floatParam(req *http.Request, name string) (float64, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", errBadParameter, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", errBadParameter, name, raw)
	}
	return v, nil
}

// intParam parses an optional positive integer query parameter
func intParam(req *http.Request, name string, def int) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errBadParameter, name, raw)
	}
	return v, nil
}

func coordinate(req *http.Request) (lat, lng float64, err error) {
	if lat, err = floatParam(req, "lat"); err != nil {
		return 0, 0, err
	}
	if lng, err = floatParam(req, "lng"); err != nil {
		return 0, 0, err
	}
	if err = spatial.ValidateCoordinate(lat, lng); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func (h *Handlers) overlaySize(req *http.Request) (width, height int, err error) {
	rc := h.controller.renderConfig
	if width, err = intParam(req, "width", rc.Width); err != nil {
		return 0, 0, err
	}
	if height, err = intParam(req, "height", rc.Height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// GetHealth reports liveness
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	svc := h.controller.services
	h.write(w, req, http.StatusOK, HealthResponse{
		Status:   "ok",
		Hotspots: svc.Engine.Catalog().Len(),
		Provider: h.controller.providerName,
		Overlay:  svc.Overlay.State().Visible,
	})
}

// GetAQI samples the interpolation engine at lat/lng
func (h *Handlers) GetAQI(w http.ResponseWriter, req *http.Request) {
	lat, lng, err := coordinate(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	b := h.controller.services.Engine.Breakdown(lat, lng)
	c := aqi.Categorize(b.AQI)
	h.write(w, req, http.StatusOK, AQIResponse{
		Latitude:  lat,
		Longitude: lng,
		Intensity: b.Intensity,
		AQI:       b.AQI,
		FarField:  b.FarField,
		Category:  c,
		ColorHex:  c.Hex(),
	})
}

// GetLocation returns a full location report, live or fallback
func (h *Handlers) GetLocation(w http.ResponseWriter, req *http.Request) {
	lat, lng, err := coordinate(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	report, err := h.controller.services.Facade.Query(req.Context(), lat, lng)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, report)
}

// GetHotspots lists the catalog
func (h *Handlers) GetHotspots(w http.ResponseWriter, req *http.Request) {
	c := h.controller.services.Engine.Catalog()
	h.write(w, req, http.StatusOK, HotspotsResponse{
		Count:     c.Len(),
		MaxRadius: c.MaxRadius(),
		Hotspots:  c.Hotspots(),
	})
}

// GetCategories returns the AQI band table
func (h *Handlers) GetCategories(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, aqi.Bands())
}

// GetOverlay returns the overlay state
func (h *Handlers) GetOverlay(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, h.controller.services.Overlay.State())
}

// ShowOverlay makes the overlay visible, rendering a frame if needed
func (h *Handlers) ShowOverlay(w http.ResponseWriter, req *http.Request) {
	width, height, err := h.overlaySize(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	f, err := h.controller.services.Overlay.Show(req.Context(), width, height)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	h.write(w, req, http.StatusOK, f.Info())
}

// HideOverlay hides the overlay and drops its frame
func (h *Handlers) HideOverlay(w http.ResponseWriter, req *http.Request) {
	o := h.controller.services.Overlay
	o.Hide()
	h.write(w, req, http.StatusOK, o.State())
}

// GetOverlayPNG renders the overlay as PNG, scaled to out_width x out_height
// when given.
func (h *Handlers) GetOverlayPNG(w http.ResponseWriter, req *http.Request) {
	width, height, err := h.overlaySize(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	outWidth, err := intParam(req, "out_width", width)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	outHeight, err := intParam(req, "out_height", height)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	if err := render.ValidateDimensions(outWidth, outHeight); err != nil {
		h.fail(w, req, err)
		return
	}

	f, err := h.controller.services.Overlay.Show(req.Context(), width, height)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, f, outWidth, outHeight); err != nil {
		h.fail(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Frame-Id", f.ID.String())
	w.Header().Set("X-Frame-Generation", strconv.FormatUint(f.Generation, 10))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetRequests returns the most recent access log entries
func (h *Handlers) GetRequests(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, http.StatusOK, h.controller.httpLog.Entries())
}

// NotFound answers unknown paths in the API's error format
func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Errorf("no such endpoint: %s", req.URL.Path))
}

// MethodNotAllowed answers known paths called with the wrong method
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteError(w, req, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed on %s", req.Method, req.URL.Path))
}
