// Package ramp models the color ramp behind a legend: an ordered list of
// colors spread evenly across a numeric domain.
//
// Stops, tick positions and tick values all derive from the color index:
// stop i sits at offset i/(n-1), tick i at i*length/(n-1) pixels, and its
// value is min + i*(max-min)/(n-1).
package ramp

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/ramplegend/pkg/errors"
)

// Domain is the numeric range mapped onto the ramp.
type Domain struct {
	Min, Max float64
}

// Span returns Max-Min.
func (d Domain) Span() float64 { return d.Max - d.Min }

// Ratio maps v to its normalized position in the domain. Values outside
// [Min, Max] yield ratios outside [0, 1]. A degenerate domain maps every
// value to 0.
func (d Domain) Ratio(v float64) float64 {
	span := d.Span()
	if span == 0 {
		return 0
	}
	return (v - d.Min) / span
}

// Clamp limits a ratio to [0, 1].
func Clamp(ratio float64) float64 {
	return math.Max(0, math.Min(1, ratio))
}

// Formatter turns a tick value into label text.
type Formatter func(value float64) string

// RoundFormatter renders values rounded to the nearest integer, with halves
// rounded up (-2.5 becomes -2).
func RoundFormatter(value float64) string {
	r := math.Floor(value + 0.5)
	if r == 0 {
		r = 0 // normalize negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Stop is a gradient color stop.
type Stop struct {
	Offset float64
	Color  string
}

// Tick is one labelled mark along the ramp.
type Tick struct {
	Index int
	Pos   float64 // pixel offset along the primary axis
	Value float64
	Label string
}

// Ramp is a validated color ramp.
type Ramp struct {
	colors []string
	parsed []colorful.Color
	domain Domain
}

// New validates colors and builds a ramp over d. At least two colors are
// required: a single stop has no step between ticks.
func New(colors []string, d Domain) (*Ramp, error) {
	if len(colors) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidRamp,
			"color ramp needs at least 2 colors, got %d", len(colors))
	}
	if math.IsNaN(d.Min) || math.IsNaN(d.Max) || math.IsInf(d.Min, 0) || math.IsInf(d.Max, 0) {
		return nil, errors.New(errors.ErrCodeInvalidRamp, "domain [%v, %v] is not finite", d.Min, d.Max)
	}
	parsed := make([]colorful.Color, len(colors))
	for i, c := range colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRamp, err, "color %d", i)
		}
		parsed[i], _ = colorful.Hex(c)
	}
	return &Ramp{
		colors: append([]string(nil), colors...),
		parsed: parsed,
		domain: d,
	}, nil
}

// Len returns the number of colors.
func (r *Ramp) Len() int { return len(r.colors) }

// Colors returns a copy of the ramp's colors.
func (r *Ramp) Colors() []string { return append([]string(nil), r.colors...) }

// Domain returns the numeric domain.
func (r *Ramp) Domain() Domain { return r.domain }

func (r *Ramp) steps() float64 { return float64(len(r.colors) - 1) }

// Stops returns one gradient stop per color.
func (r *Ramp) Stops() []Stop {
	stops := make([]Stop, len(r.colors))
	for i, c := range r.colors {
		stops[i] = Stop{Offset: float64(i) / r.steps(), Color: c}
	}
	return stops
}

// Ticks returns one tick per color spread over length pixels. A nil
// formatter falls back to RoundFormatter.
func (r *Ramp) Ticks(length float64, format Formatter) []Tick {
	if format == nil {
		format = RoundFormatter
	}
	tickStep := length / r.steps()
	valueStep := r.domain.Span() / r.steps()
	ticks := make([]Tick, len(r.colors))
	for i := range r.colors {
		v := r.domain.Min + float64(i)*valueStep
		ticks[i] = Tick{
			Index: i,
			Pos:   float64(i) * tickStep,
			Value: v,
			Label: format(v),
		}
	}
	return ticks
}

// ColorAt returns the ramp color at ratio t, blending the two neighbouring
// stops in RGB. t is clamped to [0, 1].
func (r *Ramp) ColorAt(t float64) colorful.Color {
	t = Clamp(t)
	pos := t * r.steps()
	i := int(math.Floor(pos))
	if i >= len(r.parsed)-1 {
		return r.parsed[len(r.parsed)-1]
	}
	return r.parsed[i].BlendRgb(r.parsed[i+1], pos-float64(i)).Clamped()
}

// ColorFor returns the ramp color of a domain value as a hex string.
func (r *Ramp) ColorFor(v float64) string {
	return r.ColorAt(r.domain.Ratio(v)).Hex()
}
