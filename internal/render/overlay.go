package render

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrSuperseded is returned by Show when a newer Show or Hide arrived before
// the render finished. The stale frame is discarded.
var ErrSuperseded = errors.New("render superseded by a newer request")

// OverlayState describes the overlay for status endpoints
type OverlayState struct {
	Visible    bool       `json:"visible"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Generation uint64     `json:"generation"`
	Rendering  bool       `json:"rendering"`
	Frame      *FrameInfo `json:"frame,omitempty"`
}

// Overlay owns the currently displayed frame. A new frame is rendered when
// the overlay goes from hidden to shown or when its dimensions change; hiding
// releases the frame. Each render carries a generation number and only the
// newest generation may install its frame. Shows that ask for the dimensions
// already being rendered wait for that render instead of starting another.
type Overlay struct {
	renderer *Renderer
	logger   *zap.SugaredLogger

	mu         sync.Mutex
	visible    bool
	width      int
	height     int
	generation uint64
	frame      *Frame
	pending    *pendingRender
	cancel     context.CancelFunc
}

// pendingRender is an in-flight render shared by every Show waiting on it.
// frame and err are set before done is closed.
type pendingRender struct {
	done  chan struct{}
	frame *Frame
	err   error
}

// NewOverlay creates a hidden overlay backed by renderer
func NewOverlay(renderer *Renderer, logger *zap.SugaredLogger) *Overlay {
	return &Overlay{
		renderer: renderer,
		logger:   logger.Named("overlay"),
	}
}

// Show makes the overlay visible at width x height and returns its frame,
// rendering one if needed. The render is owned by the overlay, so a caller
// whose ctx ends stops waiting without cancelling it for other callers.
func (o *Overlay) Show(ctx context.Context, width, height int) (*Frame, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}

	o.mu.Lock()
	if o.visible && o.width == width && o.height == height {
		if o.frame != nil {
			f := o.frame
			o.mu.Unlock()
			return f, nil
		}
		if p := o.pending; p != nil {
			o.mu.Unlock()
			return p.wait(ctx)
		}
	}

	if o.cancel != nil {
		o.cancel()
	}
	o.generation++
	gen := o.generation
	o.visible = true
	o.width = width
	o.height = height
	o.frame = nil
	renderCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	o.cancel = cancel
	p := &pendingRender{done: make(chan struct{})}
	o.pending = p
	o.mu.Unlock()

	o.logger.Debugw("rendering overlay", "generation", gen, "width", width, "height", height)
	go o.run(renderCtx, cancel, p, width, height, gen)
	return p.wait(ctx)
}

func (o *Overlay) run(ctx context.Context, cancel context.CancelFunc, p *pendingRender, width, height int, gen uint64) {
	f, err := o.renderer.render(ctx, width, height, gen)
	cancel()

	o.mu.Lock()
	if gen != o.generation {
		o.logger.Debugw("discarding stale overlay render", "generation", gen, "current", o.generation)
		f, err = nil, ErrSuperseded
	} else {
		o.cancel = nil
		o.pending = nil
		if err != nil {
			// Stay visible without a frame; the next Show retries
			f = nil
		} else {
			o.frame = f
		}
	}
	p.frame, p.err = f, err
	o.mu.Unlock()
	close(p.done)
}

func (p *pendingRender) wait(ctx context.Context) (*Frame, error) {
	select {
	case <-p.done:
		return p.frame, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Hide hides the overlay, releases its frame and invalidates any in-flight render
func (o *Overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.pending = nil
	o.generation++
	o.visible = false
	o.width = 0
	o.height = 0
	o.frame = nil
}

// Current returns the displayed frame, or nil when hidden or still rendering
func (o *Overlay) Current() *Frame {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frame
}

// Generation returns the current render generation
func (o *Overlay) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation
}

// State returns a snapshot of the overlay
func (o *Overlay) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := OverlayState{
		Visible:    o.visible,
		Width:      o.width,
		Height:     o.height,
		Generation: o.generation,
		Rendering:  o.pending != nil,
	}
	if o.frame != nil {
		info := o.frame.Info()
		s.Frame = &info
	}
	return s
}
