package surface

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/gogpu/gg"

	"github.com/matzehuels/ramplegend/pkg/legend/layout"
)

// Kind identifies a shape primitive.
type Kind int

const (
	KindRect Kind = iota
	KindPath
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindPath:
		return "path"
	default:
		return "text"
	}
}

// Text metrics used for bounding boxes. Glyph widths are approximated from
// the font size so layout does not depend on a loaded font.
const (
	charWidthRatio = 0.55
)

// Segment is one path command: 'M' (move), 'L' (line) or 'Z' (close).
type Segment struct {
	Op   byte
	X, Y float64
}

// GradientStop is a color at an offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  string
}

// Gradient is a linear gradient expressed in the shape's bounding-box units:
// (X1,Y1)=(0,0) and (X2,Y2)=(0,1) runs top to bottom.
type Gradient struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Stops          []GradientStop
}

// Attrs holds drawing attributes. Fields irrelevant to a kind are ignored.
type Attrs struct {
	X, Y, Width, Height float64 // rect geometry, text anchor (X, Y)
	Path                []Segment

	Text         string
	FontSize     float64
	TextAlign    string // "left", "center", "right"
	TextBaseline string // "top", "middle", "bottom"

	Fill     string
	Gradient *Gradient // overrides Fill when set
	Stroke   string
	// LineWidth applies to strokes. Zero disables stroking.
	LineWidth float64
	// Opacity multiplies fill and stroke alpha. Zero is treated as opaque.
	Opacity float64

	Class string
	Data  map[string]string
}

// EffectiveOpacity returns Opacity with the zero value mapped to 1.
func (a Attrs) EffectiveOpacity() float64 {
	if a.Opacity == 0 {
		return 1
	}
	return a.Opacity
}

// AnimState is the animation state of a shape.
type AnimState int

const (
	Idle AnimState = iota
	Animating
)

func (s AnimState) String() string {
	if s == Animating {
		return "animating"
	}
	return "idle"
}

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

type animation struct {
	from, to gg.Matrix
	start    time.Time
	duration time.Duration
	easing   Easing
}

func (a *animation) progress(now time.Time) float64 {
	if a.duration <= 0 {
		return 1
	}
	p := float64(now.Sub(a.start)) / float64(a.duration)
	return math.Max(0, math.Min(1, p))
}

func (a *animation) at(now time.Time) gg.Matrix {
	return lerpMatrix(a.from, a.to, a.easing(a.progress(now)))
}

func lerpMatrix(a, b gg.Matrix, t float64) gg.Matrix {
	l := func(x, y float64) float64 { return x + (y-x)*t }
	return gg.Matrix{
		A: l(a.A, b.A), B: l(a.B, b.B), C: l(a.C, b.C),
		D: l(a.D, b.D), E: l(a.E, b.E), F: l(a.F, b.F),
	}
}

// Shape is a drawable primitive owned by a Group.
type Shape struct {
	Kind  Kind
	Attrs Attrs

	group  *Group
	matrix gg.Matrix
	anim   *animation
}

func (*Shape) node() {}

// Group returns the owning group, or nil after removal.
func (s *Shape) Group() *Group { return s.group }

func (s *Shape) now() time.Time {
	if s.group == nil {
		return time.Now()
	}
	return s.group.clock()
}

// settle commits a finished animation.
func (s *Shape) settle(now time.Time) {
	if s.anim != nil && s.anim.progress(now) >= 1 {
		s.matrix = s.anim.to
		s.anim = nil
	}
}

// Matrix returns the shape's current transform, interpolated when an
// animation is running.
func (s *Shape) Matrix() gg.Matrix {
	return s.MatrixAt(s.now())
}

// MatrixAt returns the transform the shape has at time t.
func (s *Shape) MatrixAt(t time.Time) gg.Matrix {
	s.settle(t)
	if s.anim == nil {
		return s.matrix
	}
	return s.anim.at(t)
}

// SetMatrix replaces the transform, cancelling any animation.
func (s *Shape) SetMatrix(m gg.Matrix) {
	s.anim = nil
	s.matrix = m
}

// Target returns where the shape will rest once idle.
func (s *Shape) Target() gg.Matrix {
	s.settle(s.now())
	if s.anim != nil {
		return s.anim.to
	}
	return s.matrix
}

// State reports whether an animation is in flight.
func (s *Shape) State() AnimState {
	s.settle(s.now())
	if s.anim != nil {
		return Animating
	}
	return Idle
}

// Animate starts interpolating from the current transform to to over d.
// A running animation must be stopped first; Animate replaces it otherwise.
func (s *Shape) Animate(to gg.Matrix, d time.Duration, easing Easing) {
	if easing == nil {
		easing = Linear
	}
	now := s.now()
	s.anim = &animation{
		from:     s.MatrixAt(now),
		to:       to,
		start:    now,
		duration: d,
		easing:   easing,
	}
}

// StopAnimate cancels a running animation, leaving the shape where the
// animation had brought it.
func (s *Shape) StopAnimate() {
	now := s.now()
	if s.anim == nil {
		return
	}
	s.matrix = s.MatrixAt(now)
	s.anim = nil
}

// Remove detaches the shape from its group.
func (s *Shape) Remove() {
	if s.group != nil {
		s.group.removeNode(s)
	}
}

// LocalBBox returns the untransformed bounding box.
func (s *Shape) LocalBBox() layout.Rect {
	a := s.Attrs
	switch s.Kind {
	case KindRect:
		return layout.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	case KindPath:
		return pathBBox(a.Path)
	default:
		w := float64(utf8.RuneCountInString(a.Text)) * a.FontSize * charWidthRatio
		h := a.FontSize
		x, y := a.X, a.Y
		switch a.TextAlign {
		case "center":
			x -= w / 2
		case "right":
			x -= w
		}
		switch a.TextBaseline {
		case "middle":
			y -= h / 2
		case "top":
		default:
			y -= h
		}
		return layout.Rect{X: x, Y: y, Width: w, Height: h}
	}
}

// BBox returns the bounding box in group coordinates, after the shape's
// current transform.
func (s *Shape) BBox() layout.Rect {
	return transformRect(s.Matrix(), s.LocalBBox())
}

func pathBBox(path []Segment) layout.Rect {
	first := true
	var x0, y0, x1, y1 float64
	for _, seg := range path {
		if seg.Op == 'Z' {
			continue
		}
		if first {
			x0, y0, x1, y1 = seg.X, seg.Y, seg.X, seg.Y
			first = false
			continue
		}
		x0, y0 = min(x0, seg.X), min(y0, seg.Y)
		x1, y1 = max(x1, seg.X), max(y1, seg.Y)
	}
	return layout.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func transformRect(m gg.Matrix, r layout.Rect) layout.Rect {
	if m.IsIdentity() {
		return r
	}
	corners := [4]gg.Point{
		{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y},
		{X: r.X, Y: r.Bottom()}, {X: r.Right(), Y: r.Bottom()},
	}
	p := m.TransformPoint(corners[0])
	x0, y0, x1, y1 := p.X, p.Y, p.X, p.Y
	for _, c := range corners[1:] {
		p := m.TransformPoint(c)
		x0, y0 = min(x0, p.X), min(y0, p.Y)
		x1, y1 = max(x1, p.X), max(y1, p.Y)
	}
	return layout.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// TransformRect returns the axis-aligned bounds of r after m.
func TransformRect(m gg.Matrix, r layout.Rect) layout.Rect { return transformRect(m, r) }
