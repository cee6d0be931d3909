package legend

import (
	"github.com/gogpu/gg"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// Shape classes set on rendered legend shapes.
const (
	ClassRamp   = "legend-ramp"
	ClassTick   = "legend-tick"
	ClassLabel  = "legend-label"
	ClassAnchor = "legend-anchor"
)

// strategy holds the orientation-specific parts of a legend.
type strategy interface {
	// render appends the legend shapes to l.group and returns the anchor.
	render(l *Legend, r *ramp.Ramp, size layout.Size) (*surface.Shape, error)
	// anchorTarget returns the anchor transform for an offset along the bar.
	// ok is false when the orientation has no movable anchor.
	anchorTarget(offset float64) (m gg.Matrix, ok bool)
	// length returns the bar length the anchor travels along.
	length(size layout.Size) float64
}

func strategyFor(o layout.Orientation) strategy {
	if o == layout.Horizontal {
		return horizontal{}
	}
	return vertical{}
}

type vertical struct{}

func (vertical) render(l *Legend, r *ramp.Ramp, size layout.Size) (*surface.Shape, error) {
	w, h := size.Width, size.Height
	g := l.group

	stops := r.Stops()
	grad := &surface.Gradient{ID: l.id + "-gradient", X2: 0, Y2: 1}
	for _, s := range stops {
		grad.Stops = append(grad.Stops, surface.GradientStop{Offset: s.Offset, Color: s.Color})
	}
	g.AddShape(surface.KindRect, surface.Attrs{
		Width:    w,
		Height:   h,
		Gradient: grad,
		Class:    ClassRamp,
	})

	text, line := l.cfg.Text, l.cfg.Gridline
	for _, t := range r.Ticks(h, text.Formatter) {
		g.AddShape(surface.KindPath, surface.Attrs{
			Path:      []surface.Segment{{Op: 'M', X: 0, Y: t.Pos}, {Op: 'L', X: w, Y: t.Pos}},
			Stroke:    line.Stroke,
			LineWidth: line.LineWidth,
			Opacity:   line.Opacity,
			Class:     ClassTick,
		})
		g.AddShape(surface.KindText, surface.Attrs{
			X:            w + LabelGap,
			Y:            t.Pos,
			Text:         t.Label,
			FontSize:     text.FontSize,
			TextAlign:    "left",
			TextBaseline: "middle",
			Fill:         text.Fill,
			Opacity:      text.Opacity,
			Class:        ClassLabel,
			Data:         map[string]string{"value": formatFloat(t.Value)},
		})
	}

	return g.AddShape(surface.KindPath, surface.Attrs{
		Path: []surface.Segment{
			{Op: 'M', X: -anchorWidth, Y: -anchorHeight / 2},
			{Op: 'L', X: 0, Y: 0},
			{Op: 'L', X: -anchorWidth, Y: anchorHeight / 2},
			{Op: 'Z'},
		},
		Fill:    DefaultInk,
		Opacity: anchorOpacity,
		Class:   ClassAnchor,
	}), nil
}

func (vertical) anchorTarget(offset float64) (gg.Matrix, bool) {
	return gg.Translate(0, offset), true
}

func (vertical) length(size layout.Size) float64 { return size.Height }

// horizontal is accepted for layout but has no rendering.
type horizontal struct{}

func (horizontal) render(*Legend, *ramp.Ramp, layout.Size) (*surface.Shape, error) {
	return nil, errors.New(errors.ErrCodeUnsupported, "horizontal legends are not supported")
}

func (horizontal) anchorTarget(float64) (gg.Matrix, bool) { return gg.Identity(), false }

func (horizontal) length(size layout.Size) float64 { return size.Width }
