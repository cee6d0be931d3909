package plot

import (
	"github.com/matzehuels/ramplegend/pkg/legend/event"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// Static is a Host backed by plain values.
type Static struct {
	canvas *surface.Group
	theme  Theme
	opts   Options
	panel  layout.Rect
	scales map[string]ramp.Domain
	bus    *event.Bus
}

// StaticOption configures a Static host.
type StaticOption func(*Static)

// WithCanvas uses an existing canvas instead of a fresh one.
func WithCanvas(c *surface.Group) StaticOption { return func(s *Static) { s.canvas = c } }

// WithBus uses an existing event bus.
func WithBus(b *event.Bus) StaticOption { return func(s *Static) { s.bus = b } }

// WithScale registers the domain of a field.
func WithScale(field string, d ramp.Domain) StaticOption {
	return func(s *Static) { s.scales[field] = d }
}

// NewStatic builds a host. Without WithCanvas or WithBus, a new canvas and
// bus are created.
func NewStatic(opts Options, theme Theme, panel layout.Rect, options ...StaticOption) *Static {
	s := &Static{
		theme:  theme,
		opts:   opts,
		panel:  panel,
		scales: make(map[string]ramp.Domain),
	}
	for _, o := range options {
		o(s)
	}
	if s.canvas == nil {
		s.canvas = surface.NewCanvas()
	}
	if s.bus == nil {
		s.bus = event.NewBus()
	}
	return s
}

func (s *Static) Container() *surface.Group { return s.canvas }
func (s *Static) Theme() Theme              { return s.theme }
func (s *Static) Options() Options          { return s.opts }
func (s *Static) Width() float64            { return s.opts.Width }
func (s *Static) Height() float64           { return s.opts.Height }
func (s *Static) PanelRange() layout.Rect   { return s.panel }
func (s *Static) Events() event.Source      { return s.bus }

// Bus returns the concrete bus so callers can emit events.
func (s *Static) Bus() *event.Bus { return s.bus }

func (s *Static) Scale(field string) (ramp.Domain, bool) {
	d, ok := s.scales[field]
	return d, ok
}

// SetScale registers or replaces the domain of a field.
func (s *Static) SetScale(field string, d ramp.Domain) { s.scales[field] = d }

var _ Host = (*Static)(nil)
