// Package config loads scene files.
//
// A scene file is TOML and describes the host plot, the legend attached to it
// and the heatmap values drawn in the plot's data panel:
//
//	[plot]
//	width = 800
//	height = 600
//	colors = ["#313695", "#ffffbf", "#a50026"]
//
//	[plot.bleeding]
//	top = 10
//	right = "10%"
//
//	[legend]
//	position = "right-center"
//
//	[data]
//	values = [[1, 2, 3], [4, 5, 6]]
//
// Every key is optional except the data values. Omitted keys keep the values
// of [Default]; unknown keys are rejected.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/plot"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
)

// DefaultGutter is the room kept free for the legend between the data panel
// and the bleeding when no explicit panel is configured.
const DefaultGutter = 60.0

// DefaultColors is a diverging blue-yellow-red ramp.
var DefaultColors = []string{"#313695", "#74add1", "#ffffbf", "#f46d43", "#a50026"}

// Scene is a decoded scene file.
type Scene struct {
	Plot   Plot   `toml:"plot"`
	Legend Legend `toml:"legend"`
	Data   Data   `toml:"data"`
}

// Plot describes the host chart.
type Plot struct {
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	ColorField string   `toml:"color_field"`
	Colors     []string `toml:"colors"`
	ShapeType  string   `toml:"shape_type"`
	Background string   `toml:"background"`

	Bleeding Bleeding `toml:"bleeding"`
	// Gutter is ignored when Panel is set.
	Gutter float64 `toml:"gutter"`
	Panel  *Panel  `toml:"panel"`
}

// Bleeding holds the theme insets. Each side is a number of pixels or a
// percentage string; percentages of the plot width apply to left and right,
// of the plot height to top and bottom.
type Bleeding struct {
	Top    Inset `toml:"top"`
	Right  Inset `toml:"right"`
	Bottom Inset `toml:"bottom"`
	Left   Inset `toml:"left"`
}

// Panel is the data panel rectangle in plot coordinates.
type Panel struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Legend mirrors legend.Config.
type Legend struct {
	Visible       bool      `toml:"visible"`
	Position      string    `toml:"position"`
	Width         float64   `toml:"width"`
	Height        float64   `toml:"height"`
	TriggerOn     string    `toml:"trigger_on"`
	AllowOverflow bool      `toml:"allow_overflow"`
	Text          TextStyle `toml:"text"`
	Gridline      LineStyle `toml:"gridline"`
}

// TextStyle styles tick labels. Format is a printf verb for one float64,
// such as "%.1f"; empty means rounded integers.
type TextStyle struct {
	FontSize float64 `toml:"font_size"`
	Fill     string  `toml:"fill"`
	Opacity  float64 `toml:"opacity"`
	Format   string  `toml:"format"`
}

// LineStyle styles tick lines.
type LineStyle struct {
	LineWidth float64 `toml:"line_width"`
	Stroke    string  `toml:"stroke"`
	Opacity   float64 `toml:"opacity"`
}

// Data holds the heatmap grid, one row per slice. Domain optionally pins the
// color scale instead of deriving it from the values.
type Data struct {
	Values [][]float64 `toml:"values"`
	Domain []float64   `toml:"domain"`
}

// Default returns a scene with every optional key populated.
func Default() Scene {
	lc := legend.DefaultConfig()
	return Scene{
		Plot: Plot{
			Width:      800,
			Height:     600,
			ColorField: "value",
			Colors:     append([]string(nil), DefaultColors...),
			ShapeType:  plot.ShapeRect,
			Background: "#ffffff",
			Bleeding: Bleeding{
				Top: Fixed(20), Right: Fixed(20), Bottom: Fixed(20), Left: Fixed(20),
			},
			Gutter: DefaultGutter,
		},
		Legend: Legend{
			Visible:   lc.Visible,
			Position:  lc.Position,
			TriggerOn: lc.TriggerOn,
			Text: TextStyle{
				FontSize: lc.Text.FontSize,
				Fill:     lc.Text.Fill,
				Opacity:  lc.Text.Opacity,
			},
			Gridline: LineStyle{
				LineWidth: lc.Gridline.LineWidth,
				Stroke:    lc.Gridline.Stroke,
				Opacity:   lc.Gridline.Opacity,
			},
		},
	}
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scene file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return s, nil
}

// Parse decodes a scene from TOML and validates it.
func Parse(data []byte) (*Scene, error) {
	s := Default()
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the parts of the scene the legend does not validate itself.
func (s *Scene) Validate() error {
	p := s.Plot
	if p.Width <= 0 || p.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "plot size must be positive, got %vx%v", p.Width, p.Height)
	}
	if p.ColorField == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "plot.color_field must not be empty")
	}
	for _, c := range p.Colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "plot.colors")
		}
	}
	if p.Background != "" {
		if err := errors.ValidateHexColor(p.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "plot.background")
		}
	}
	if p.Panel != nil && (p.Panel.Width <= 0 || p.Panel.Height <= 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "plot.panel size must be positive")
	}
	if r := s.PanelRect(); r.Width <= 0 || r.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"bleeding and gutter leave no room for the data panel (%vx%v)", r.Width, r.Height)
	}

	if len(s.Data.Values) == 0 || len(s.Data.Values[0]) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "data.values must hold at least one value")
	}
	cols := len(s.Data.Values[0])
	for i, row := range s.Data.Values {
		if len(row) != cols {
			return errors.New(errors.ErrCodeInvalidConfig,
				"data.values row %d has %d values, want %d", i, len(row), cols)
		}
	}
	if d := s.Data.Domain; d != nil && (len(d) != 2 || d[0] > d[1]) {
		return errors.New(errors.ErrCodeInvalidConfig, "data.domain must be [min, max], got %v", d)
	}
	return nil
}

// Options returns the host plot options.
func (s *Scene) Options() plot.Options {
	return plot.Options{
		Width:      s.Plot.Width,
		Height:     s.Plot.Height,
		ColorField: s.Plot.ColorField,
		Colors:     append([]string(nil), s.Plot.Colors...),
		ShapeType:  s.Plot.ShapeType,
	}
}

// Theme returns the host theme. Percentage insets become functions of the
// plot options.
func (s *Scene) Theme() plot.Theme {
	b := s.Plot.Bleeding
	return plot.Theme{Bleeding: plot.Bleeding{
		Top:    b.Top.inset(heightOf),
		Right:  b.Right.inset(widthOf),
		Bottom: b.Bottom.inset(heightOf),
		Left:   b.Left.inset(widthOf),
	}}
}

// PanelRect returns the configured panel, or the area inside the bleeding
// minus the legend gutter on the legend's side.
func (s *Scene) PanelRect() layout.Rect {
	if p := s.Plot.Panel; p != nil {
		return layout.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
	}
	e := s.Theme().Bleeding.Resolve(s.Options())
	r := layout.Rect{
		X:      e.Left,
		Y:      e.Top,
		Width:  s.Plot.Width - e.Left - e.Right,
		Height: s.Plot.Height - e.Top - e.Bottom,
	}
	if !s.Legend.Visible {
		return r
	}
	g := s.Plot.Gutter
	switch pos, _ := layout.ParsePosition(s.Legend.Position); pos.Primary {
	case layout.Left:
		r.X += g
		r.Width -= g
	case layout.Top:
		r.Y += g
		r.Height -= g
	case layout.Bottom:
		r.Height -= g
	default:
		r.Width -= g
	}
	return r
}

// LegendConfig returns the legend configuration.
func (s *Scene) LegendConfig() legend.Config {
	l := s.Legend
	cfg := legend.Config{
		Visible:  l.Visible,
		Position: l.Position,
		Width:    l.Width,
		Height:   l.Height,
		Text: legend.TextStyle{
			FontSize: l.Text.FontSize,
			Fill:     l.Text.Fill,
			Opacity:  l.Text.Opacity,
		},
		Gridline: legend.LineStyle{
			LineWidth: l.Gridline.LineWidth,
			Stroke:    l.Gridline.Stroke,
			Opacity:   l.Gridline.Opacity,
		},
		TriggerOn:     l.TriggerOn,
		AllowOverflow: l.AllowOverflow,
	}
	if f := l.Text.Format; f != "" {
		cfg.Text.Formatter = func(v float64) string { return fmt.Sprintf(f, v) }
	}
	return cfg
}

// Values returns the data grid flattened in row order.
func (s *Scene) Values() []float64 {
	var out []float64
	for _, row := range s.Data.Values {
		out = append(out, row...)
	}
	return out
}

// Domain returns the color scale domain: the pinned domain when set,
// otherwise the extent of the values.
func (s *Scene) Domain() (ramp.Domain, bool) {
	if d := s.Data.Domain; len(d) == 2 {
		return ramp.Domain{Min: d[0], Max: d[1]}, true
	}
	return plot.DomainOf(s.Values())
}

// Encode writes the scene back as TOML.
func (s *Scene) Encode() ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return []byte(b.String()), nil
}

func widthOf(o plot.Options) float64  { return o.Width }
func heightOf(o plot.Options) float64 { return o.Height }
