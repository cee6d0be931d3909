// Package plot defines what a legend needs from the chart hosting it.
//
// The legend never draws the chart itself. It asks its Host for a container
// group to draw into, the theme insets ("bleeding") around the plot, the
// plot options (size, color field, color sequence, mark shape), the data
// panel geometry, the resolved color scale and an event source for pointer
// interactions. Static is a plain implementation used by the pipeline, the
// CLI and tests.
package plot

import (
	"math"

	"github.com/matzehuels/ramplegend/pkg/legend/event"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// ShapeRect is the mark shape that reports events under the "polygon" prefix.
const ShapeRect = "rect"

// Options are the host plot's options relevant to the legend.
type Options struct {
	Width      float64
	Height     float64
	ColorField string
	Colors     []string
	// ShapeType is the mark shape. "rect" marks report polygon events,
	// everything else reports point events.
	ShapeType string
}

// Inset is one side of the theme's bleeding: either a fixed number or a
// function of the plot options.
type Inset struct {
	value float64
	fn    func(Options) float64
}

// Fixed returns a static inset.
func Fixed(v float64) Inset { return Inset{value: v} }

// Func returns an inset computed from the plot options at layout time.
func Func(fn func(Options) float64) Inset { return Inset{fn: fn} }

// Dynamic reports whether the inset is computed.
func (i Inset) Dynamic() bool { return i.fn != nil }

// Resolve returns the inset's value for o.
func (i Inset) Resolve(o Options) float64 {
	if i.fn != nil {
		return i.fn(o)
	}
	return i.value
}

// Bleeding holds the reserved margins on each side of the plot.
type Bleeding struct {
	Top, Right, Bottom, Left Inset
}

// Uniform returns a bleeding with the same fixed inset on every side.
func Uniform(v float64) Bleeding {
	return Bleeding{Top: Fixed(v), Right: Fixed(v), Bottom: Fixed(v), Left: Fixed(v)}
}

// Resolve evaluates every side exactly once.
func (b Bleeding) Resolve(o Options) layout.Edges {
	return layout.Edges{
		Top:    b.Top.Resolve(o),
		Right:  b.Right.Resolve(o),
		Bottom: b.Bottom.Resolve(o),
		Left:   b.Left.Resolve(o),
	}
}

// Theme is the host theme as seen by the legend.
type Theme struct {
	Bleeding Bleeding
}

// Host is the chart a legend is attached to.
type Host interface {
	// Container is the group the legend adds its own group to.
	Container() *surface.Group
	Theme() Theme
	Options() Options
	Width() float64
	Height() float64
	// PanelRange is the region holding the data marks.
	PanelRange() layout.Rect
	// Scale returns the resolved domain of a field.
	Scale(field string) (ramp.Domain, bool)
	Events() event.Source
}

// DomainOf returns the [min, max] of values. ok is false when values is
// empty or holds no finite number.
func DomainOf(values []float64) (d ramp.Domain, ok bool) {
	d = ramp.Domain{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d.Min = math.Min(d.Min, v)
		d.Max = math.Max(d.Max, v)
		ok = true
	}
	if !ok {
		return ramp.Domain{}, false
	}
	return d, true
}
