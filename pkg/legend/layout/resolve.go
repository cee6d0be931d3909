package layout

// DefaultThickness is the cross-axis size of a ramp when none is configured.
const DefaultThickness = 10.0

// Point is a plot-local offset.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle in plot-local coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Union returns the smallest rectangle containing r and o.
// An empty rectangle (zero width and height at the origin) is absorbed.
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	if o == (Rect{}) {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Edges holds resolved insets, one per plot side.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Input carries everything a layout pass needs.
type Input struct {
	Position Position
	Insets   Edges
	BBox     Size // rendered legend content
	Plot     Size // full plot canvas

	// PanelY is the top of the data panel. It is used instead of true
	// centering when FullHeight is set.
	PanelY float64
	// FullHeight reports that the legend's height equals the panel height,
	// the default for vertical legends.
	FullHeight bool
}

// Resolve computes the top-left offset of the legend's bounding box.
//
// Each axis is decided by the primary side when it constrains that axis and
// by the secondary side otherwise. A secondary side that does not apply to
// the axis (e.g. "left-left" for Y) leaves the coordinate at 0.
func Resolve(in Input) Point {
	return Point{X: resolveX(in), Y: resolveY(in)}
}

func resolveX(in Input) float64 {
	switch in.Position.Primary {
	case Left:
		return in.Insets.Left
	case Right:
		return in.Plot.Width - in.Insets.Right - in.BBox.Width
	}
	switch in.Position.Secondary {
	case Center:
		return (in.Plot.Width - in.BBox.Width) / 2
	case Left:
		return in.Insets.Left
	case Right:
		return in.Plot.Width - in.Insets.Right - in.BBox.Width
	}
	return 0
}

func resolveY(in Input) float64 {
	switch in.Position.Primary {
	case Bottom:
		return in.Plot.Height - in.Insets.Bottom - in.BBox.Height
	case Top:
		return in.Insets.Top
	}
	switch in.Position.Secondary {
	case Center:
		if in.FullHeight {
			return in.PanelY
		}
		return (in.Plot.Height - in.BBox.Height) / 2
	case Top:
		return in.Insets.Top
	case Bottom:
		return in.Plot.Height - in.Insets.Bottom - in.BBox.Height
	}
	return 0
}

// DefaultSize returns the legend size used when width or height are not
// configured: horizontal ramps span half the plot width, vertical ramps
// match the panel height, and the cross axis is DefaultThickness.
func DefaultSize(o Orientation, plotWidth, panelHeight float64) Size {
	if o == Horizontal {
		return Size{Width: plotWidth * 0.5, Height: DefaultThickness}
	}
	return Size{Width: DefaultThickness, Height: panelHeight}
}
