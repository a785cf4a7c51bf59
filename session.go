package mandel

import (
	"fmt"
	"sync"
)

// SessionConfig describes a viewer session. Zero fields take defaults.
type SessionConfig struct {
	Width, Height int
	Params        IterationParams
	Start         Region
	Renderer      Renderer
}

// Session holds the state of one interactive view: resolution, iteration
// parameters, the current region and its rendered frame. Calls are
// serialized, so a zoom and its re-render form a single step and a frame is
// never rendered from a half updated region.
type Session struct {
	w, h     int
	params   IterationParams
	start    Region
	renderer Renderer

	mu    sync.Mutex
	frame Frame
}

var _ Viewer = (*Session)(nil)

// NewSession validates cfg and renders the starting frame.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Params == (IterationParams{}) {
		cfg.Params = DefaultParams
	}
	if cfg.Start == (Region{}) {
		cfg.Start = DefaultRegion
	}
	if err := checkResolution(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	s := &Session{
		w:        cfg.Width,
		h:        cfg.Height,
		params:   cfg.Params,
		start:    cfg.Start,
		renderer: cfg.Renderer,
	}
	if _, err := s.show(cfg.Start); err != nil {
		return nil, fmt.Errorf("initial frame: %w", err)
	}

	Logger().Info("session started",
		"size", fmt.Sprintf("%dx%d", s.w, s.h),
		"maxIteration", s.params.MaxIteration,
		"region", s.start.String(),
	)
	return s, nil
}

func (s *Session) Dimensions() (int, int, error) {
	return s.w, s.h, nil
}

func (s *Session) Region() (Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.Region, nil
}

func (s *Session) Current() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, nil
}

// Zoom re-centers the view on pixel (px, py) and scales it by factor.
// On error the current frame is kept.
func (s *Session) Zoom(px, py int, factor float64) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	Logger().Debug("zoom", "x", px, "y", py, "factor", factor)
	next, err := s.frame.Region.ZoomAt(px, py, s.w, s.h, factor)
	if err != nil {
		Logger().Warn("zoom rejected", "err", err)
		return s.frame, err
	}
	return s.renderLocked(next)
}

// Click zooms in on a primary click and out on a secondary one.
func (s *Session) Click(px, py int, b Button) (Frame, error) {
	factor, ok := b.factor()
	if !ok {
		f, _ := s.Current()
		return f, fmt.Errorf("%w: button %d", ErrInvalidArgument, b)
	}
	return s.Zoom(px, py, factor)
}

// Reset returns to the region the session started with.
func (s *Session) Reset() (Frame, error) {
	return s.show(s.start)
}

// Goto shows the named landmark.
func (s *Session) Goto(landmark string) (Frame, error) {
	r, err := LandmarkByName(landmark)
	if err != nil {
		f, _ := s.Current()
		return f, err
	}
	return s.show(r)
}

func (s *Session) show(r Region) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(r)
}

func (s *Session) renderLocked(r Region) (Frame, error) {
	img, err := s.renderer.RenderFrame(r, s.w, s.h, s.params)
	if err != nil {
		return s.frame, err
	}
	s.frame = Frame{Region: r, Image: *img}
	return s.frame, nil
}
