package sink

import (
	"encoding/json"

	"github.com/gogpu/gg"

	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	source string
}

// WithJSONSource records where the scene came from (e.g. a scene file name).
func WithJSONSource(s string) JSONOption { return func(r *jsonRenderer) { r.source = s } }

type jsonOutput struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Source  string       `json:"source,omitempty"`
	Legends []jsonLegend `json:"legends,omitempty"`
	Shapes  []jsonShape  `json:"shapes"`
}

type jsonLegend struct {
	ID     string            `json:"id"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	Data   map[string]string `json:"data,omitempty"`
}

type jsonShape struct {
	Kind      string            `json:"kind"`
	Group     string            `json:"group,omitempty"`
	Class     string            `json:"class,omitempty"`
	Transform [6]float64        `json:"transform"`
	BBox      jsonRect          `json:"bbox"`
	Path      []jsonSegment     `json:"path,omitempty"`
	Text      string            `json:"text,omitempty"`
	FontSize  float64           `json:"font_size,omitempty"`
	Fill      string            `json:"fill,omitempty"`
	Gradient  *jsonGradient     `json:"gradient,omitempty"`
	Stroke    string            `json:"stroke,omitempty"`
	LineWidth float64           `json:"line_width,omitempty"`
	Opacity   float64           `json:"opacity"`
	Data      map[string]string `json:"data,omitempty"`
}

type jsonRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonSegment struct {
	Op string  `json:"op"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type jsonGradient struct {
	ID    string     `json:"id"`
	From  [2]float64 `json:"from"`
	To    [2]float64 `json:"to"`
	Stops []jsonStop `json:"stops"`
}

type jsonStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// RenderJSON exports the scene as a pretty-printed JSON document. Shape
// bounding boxes, path points and gradient endpoints are in absolute frame
// coordinates; the transform is the full matrix from shape to frame as
// [a b c d e f] with x' = a*x + b*y + c and y' = d*x + e*y + f.
func RenderJSON(root *surface.Group, width, height float64, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:   width,
		Height:  height,
		Source:  r.source,
		Legends: buildJSONLegends(root),
		Shapes:  make([]jsonShape, 0),
	}
	for _, p := range flatten(root) {
		out.Shapes = append(out.Shapes, buildJSONShape(p))
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONLegends(root *surface.Group) []jsonLegend {
	var out []jsonLegend
	var walk func(g *surface.Group)
	walk = func(g *surface.Group) {
		for _, c := range g.Groups() {
			if c.Class == "legend" && len(c.Nodes()) > 0 {
				box := surface.TransformRect(c.WorldTransform(), c.BBox())
				m := c.WorldTransform()
				out = append(out, jsonLegend{
					ID:     c.ID,
					X:      m.C,
					Y:      m.F,
					Width:  box.Width,
					Height: box.Height,
					Data:   c.Data,
				})
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func buildJSONShape(p placed) jsonShape {
	a := p.shape.Attrs
	m := p.world
	box := surface.TransformRect(m, p.shape.LocalBBox())
	js := jsonShape{
		Kind:      p.shape.Kind.String(),
		Group:     p.owner.ID,
		Class:     a.Class,
		Transform: [6]float64{m.A, m.B, m.C, m.D, m.E, m.F},
		BBox:      jsonRect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height},
		Text:      a.Text,
		FontSize:  a.FontSize,
		Fill:      a.Fill,
		Stroke:    a.Stroke,
		LineWidth: a.LineWidth,
		Opacity:   a.EffectiveOpacity(),
		Data:      a.Data,
	}
	for _, seg := range a.Path {
		if seg.Op == 'Z' {
			js.Path = append(js.Path, jsonSegment{Op: "Z"})
			continue
		}
		q := m.TransformPoint(gg.Point{X: seg.X, Y: seg.Y})
		js.Path = append(js.Path, jsonSegment{Op: string(seg.Op), X: q.X, Y: q.Y})
	}
	if g := a.Gradient; g != nil {
		from := m.TransformPoint(gg.Point{X: a.X + g.X1*a.Width, Y: a.Y + g.Y1*a.Height})
		to := m.TransformPoint(gg.Point{X: a.X + g.X2*a.Width, Y: a.Y + g.Y2*a.Height})
		jg := &jsonGradient{ID: g.ID, From: [2]float64{from.X, from.Y}, To: [2]float64{to.X, to.Y}}
		for _, s := range g.Stops {
			jg.Stops = append(jg.Stops, jsonStop{Offset: s.Offset, Color: s.Color})
		}
		js.Gradient = jg
	}
	return js
}
