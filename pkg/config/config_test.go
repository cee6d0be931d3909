package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/plot"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
)

const minimal = `
[data]
values = [[1, 2], [3, 4]]
`

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if s.Plot.Width != 800 || s.Plot.Height != 600 || s.Plot.ColorField != "value" {
		t.Errorf("plot defaults = %+v", s.Plot)
	}
	if len(s.Plot.Colors) != len(DefaultColors) {
		t.Errorf("colors = %v", s.Plot.Colors)
	}

	cfg := s.LegendConfig()
	want := legend.DefaultConfig()
	if cfg.Visible != want.Visible || cfg.Position != want.Position || cfg.TriggerOn != want.TriggerOn ||
		cfg.Text.FontSize != want.Text.FontSize || cfg.Gridline.Opacity != want.Gridline.Opacity {
		t.Errorf("LegendConfig() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Text.Formatter != nil {
		t.Error("Formatter should be nil without text.format")
	}

	if got, want := s.PanelRect(), (layout.Rect{X: 20, Y: 20, Width: 700, Height: 560}); got != want {
		t.Errorf("PanelRect() = %+v, want %+v", got, want)
	}
	if d, ok := s.Domain(); !ok || d != (ramp.Domain{Min: 1, Max: 4}) {
		t.Errorf("Domain() = %+v, %v", d, ok)
	}
}

func TestParseFull(t *testing.T) {
	src := `
[plot]
width = 400
height = 300
color_field = "temp"
colors = ["#000000", "#ffffff"]
shape_type = "circle"

[plot.bleeding]
top = 10
right = "5%"
bottom = 12.5
left = "8"

[plot.panel]
x = 30
y = 10
width = 300
height = 280

[legend]
position = "left-top"
width = 14
height = 200
trigger_on = "click"
allow_overflow = true

[legend.text]
font_size = 10
format = "%.1f"

[legend.gridline]
stroke = "#333333"
opacity = 0.8

[data]
values = [[-1.5, 0.5]]
domain = [-2, 2]
`
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	o := s.Options()
	if o.Width != 400 || o.ColorField != "temp" || o.ShapeType != "circle" || len(o.Colors) != 2 {
		t.Errorf("Options() = %+v", o)
	}

	b := s.Theme().Bleeding
	if !b.Right.Dynamic() || b.Left.Dynamic() {
		t.Error("only the percentage inset should be dynamic")
	}
	if e := b.Resolve(o); e != (layout.Edges{Top: 10, Right: 20, Bottom: 12.5, Left: 8}) {
		t.Errorf("resolved bleeding = %+v", e)
	}

	if got := s.PanelRect(); got != (layout.Rect{X: 30, Y: 10, Width: 300, Height: 280}) {
		t.Errorf("PanelRect() = %+v", got)
	}

	cfg := s.LegendConfig()
	if cfg.Position != "left-top" || cfg.Width != 14 || cfg.Height != 200 || cfg.TriggerOn != "click" || !cfg.AllowOverflow {
		t.Errorf("LegendConfig() = %+v", cfg)
	}
	if cfg.Text.Fill != legend.DefaultInk || cfg.Gridline.Stroke != "#333333" || cfg.Gridline.LineWidth != 1 {
		t.Errorf("styles = %+v / %+v", cfg.Text, cfg.Gridline)
	}
	if cfg.Text.Formatter == nil || cfg.Text.Formatter(0.25) != "0.2" && cfg.Text.Formatter(0.25) != "0.3" {
		t.Error("text.format should produce a one-decimal formatter")
	}

	if d, _ := s.Domain(); d != (ramp.Domain{Min: -2, Max: 2}) {
		t.Errorf("Domain() = %+v, want pinned [-2, 2]", d)
	}
}

func TestPanelGutter(t *testing.T) {
	tests := []struct {
		position string
		visible  bool
		want     layout.Rect
	}{
		{"right-center", true, layout.Rect{X: 20, Y: 20, Width: 700, Height: 560}},
		{"left-center", true, layout.Rect{X: 80, Y: 20, Width: 700, Height: 560}},
		{"top-center", true, layout.Rect{X: 20, Y: 80, Width: 760, Height: 500}},
		{"bottom-left", true, layout.Rect{X: 20, Y: 20, Width: 760, Height: 500}},
		{"right-center", false, layout.Rect{X: 20, Y: 20, Width: 760, Height: 560}},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			s := Default()
			s.Legend.Position = tt.position
			s.Legend.Visible = tt.visible
			if got := s.PanelRect(); got != tt.want {
				t.Errorf("PanelRect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "[plot\n", "decode scene"},
		{"unknown key", minimal + "\n[legend]\ncolour = 1\n", "legend.colour"},
		{"no data", "[legend]\nvisible = true\n", "data.values"},
		{"ragged rows", "[data]\nvalues = [[1, 2], [3]]\n", "row 1"},
		{"bad size", minimal + "\n[plot]\nwidth = 0\n", "plot size"},
		{"bad color", minimal + "\n[plot]\ncolors = [\"red\", \"#fff\"]\n", "plot.colors"},
		{"bad inset", minimal + "\n[plot.bleeding]\ntop = \"lots\"\n", "invalid inset"},
		{"negative inset", minimal + "\n[plot.bleeding]\ntop = -1\n", "negative"},
		{"bad domain", "[data]\nvalues = [[1]]\ndomain = [3, 1]\n", "data.domain"},
		{"no panel room", minimal + "\n[plot.bleeding]\nleft = \"60%\"\nright = \"50%\"\n", "no room"},
		{"empty panel", minimal + "\n[plot.panel]\nwidth = 0\nheight = 10\n", "plot.panel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(minimal), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[plot]\nwidth = -1\n"+minimal), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(bad)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) || !strings.Contains(err.Error(), "bad.toml") {
		t.Errorf("invalid file: %v", err)
	}
}

func TestParseInset(t *testing.T) {
	tests := []struct {
		in      string
		want    Inset
		wantErr bool
	}{
		{"12", Fixed(12), false},
		{" 7.5 ", Fixed(7.5), false},
		{"5%", Percent(5), false},
		{"%", Inset{}, true},
		{"abc", Inset{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInset(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInset(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseInset(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercentInsetTracksOptions(t *testing.T) {
	in := Percent(10).inset(widthOf)
	if got := in.Resolve(plot.Options{Width: 300}); got != 30 {
		t.Errorf("Resolve() = %v, want 30", got)
	}
	if got := in.Resolve(plot.Options{Width: 500}); got != 50 {
		t.Errorf("Resolve() = %v, want 50", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s, err := Parse([]byte(minimal + "\n[plot.bleeding]\nright = \"5%\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error: %v\n%s", err, data)
	}
	if back.Plot.Bleeding != s.Plot.Bleeding || back.PanelRect() != s.PanelRect() || len(back.Values()) != 4 {
		t.Errorf("round trip changed the scene:\n%s", data)
	}
}
