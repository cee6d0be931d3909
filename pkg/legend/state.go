package legend

import (
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// State is what a render pass produced. The interaction handlers read it;
// only anchor moves change Ratio and Offset afterwards.
type State struct {
	// X and Y are the resolved top-left offset of the legend group.
	X, Y float64
	// Width and Height are the bar's size.
	Width, Height float64
	Domain        ramp.Domain
	Orientation   layout.Orientation
	Ticks         []ramp.Tick

	// Ratio is the last normalized value the anchor was sent to and Offset
	// its pixel position along the bar.
	Ratio  float64
	Offset float64

	anchor *surface.Shape
}

// Rendered reports whether the state comes from a successful render.
func (s State) Rendered() bool { return s.anchor != nil }

// Anchor returns the anchor shape, or nil before the first render.
func (s State) Anchor() *surface.Shape { return s.anchor }

// AnchorState reports whether the anchor is idle or animating.
func (s State) AnchorState() surface.AnimState {
	if s.anchor == nil {
		return surface.Idle
	}
	return s.anchor.State()
}
