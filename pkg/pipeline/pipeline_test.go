package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ramplegend/pkg/cache"
	"github.com/matzehuels/ramplegend/pkg/config"
	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/observability"
)

const sceneTOML = `
[data]
values = [[0, 50], [100, 25]]
`

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func quiet() *log.Logger { return log.New(io.Discard) }

func mustScene(t *testing.T, src string) *config.Scene {
	t.Helper()
	s, err := config.Parse([]byte(src))
	if err != nil {
		t.Fatalf("config.Parse() error: %v", err)
	}
	return s
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg", "png", "json"}, false},
		{nil, false},
		{[]string{"svg", "pdf"}, true},
		{[]string{"SVG"}, true},
	}
	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG || opts.Scale != 1 || opts.Logger == nil {
		t.Errorf("defaults = %+v", opts)
	}

	bad := Options{Scale: -2}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative scale: %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 2, Interactive: true, Source: "a.toml"}
	tests := []struct {
		format string
		want   cache.ArtifactKeyOpts
	}{
		{FormatSVG, cache.ArtifactKeyOpts{Format: "svg", Interactive: true}},
		{FormatPNG, cache.ArtifactKeyOpts{Format: "png", Scale: 2}},
		{FormatJSON, cache.ArtifactKeyOpts{Format: "json", Source: "a.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := opts.ArtifactKeyOpts(tt.format); got != tt.want {
				t.Errorf("ArtifactKeyOpts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildScene(t *testing.T) {
	cfg := mustScene(t, sceneTOML)
	sc, err := BuildScene(cfg, WithLogger(quiet()))
	if err != nil {
		t.Fatalf("BuildScene() error: %v", err)
	}
	defer sc.Close()

	if len(sc.Cells) != 4 {
		t.Fatalf("cells = %d, want 4", len(sc.Cells))
	}
	panel := cfg.PanelRect()
	tests := []struct {
		i          int
		x, y       float64
		fill, data string
	}{
		{0, 0, 0, "#313695", "0"},
		{1, panel.Width / 2, 0, "#ffffbf", "50"},
		{2, 0, panel.Height / 2, "#a50026", "100"},
		{3, panel.Width / 2, panel.Height / 2, "#74add1", "25"},
	}
	for _, tt := range tests {
		a := sc.Cells[tt.i].Attrs
		if a.X != tt.x || a.Y != tt.y || a.Width != panel.Width/2 || a.Height != panel.Height/2 {
			t.Errorf("cell %d geometry = (%v,%v %vx%v)", tt.i, a.X, a.Y, a.Width, a.Height)
		}
		if a.Fill != tt.fill || a.Class != ClassCell || a.Data["value"] != tt.data {
			t.Errorf("cell %d = fill %s class %s data %v, want %s/%s", tt.i, a.Fill, a.Class, a.Data, tt.fill, tt.data)
		}
	}

	st := sc.Legend.State()
	if !st.Rendered() || st.Height != panel.Height || st.Y != panel.Y {
		t.Errorf("legend state = %+v, want full panel height at y=%v", st, panel.Y)
	}
	if sc.Legend.Listeners() != 2 {
		t.Errorf("listeners = %d, want 2", sc.Legend.Listeners())
	}
}

func TestBuildSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Scene)
		code errors.Code
	}{
		{"position", func(s *config.Scene) { s.Legend.Position = "middle-center" }, errors.ErrCodeInvalidPosition},
		{"single color", func(s *config.Scene) { s.Plot.Colors = []string{"#000000"} }, errors.ErrCodeInvalidRamp},
		{"horizontal", func(s *config.Scene) { s.Legend.Position = "bottom-center" }, errors.ErrCodeUnsupported},
		{"empty data", func(s *config.Scene) { s.Data.Values = nil }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustScene(t, sceneTOML)
			tt.edit(cfg)
			_, err := BuildScene(cfg, WithLogger(quiet()))
			if !errors.Is(err, tt.code) {
				t.Errorf("BuildScene() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSceneHover(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	sc, err := BuildScene(mustScene(t, sceneTOML), WithClock(clock.now), WithLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()
	h := sc.Legend.State().Height

	if !sc.Hover(1, 0) {
		t.Fatal("Hover(1, 0) should hit a cell")
	}
	if st := sc.Legend.State(); st.Ratio != 1 || st.Offset != h {
		t.Errorf("after hovering 100: ratio %v offset %v, want 1 and %v", st.Ratio, st.Offset, h)
	}

	clock.t = clock.t.Add(200 * time.Millisecond)
	if !sc.HoverLabel(1) {
		t.Fatal("HoverLabel(1) should hit a tick")
	}
	if st := sc.Legend.State(); st.Ratio != 0.25 || st.Offset != h/4 {
		t.Errorf("after hovering label 25: ratio %v offset %v", st.Ratio, st.Offset)
	}

	if sc.Hover(2, 0) || sc.Hover(0, -1) || sc.HoverLabel(9) {
		t.Error("out-of-range hover should report false")
	}
}

func TestRender(t *testing.T) {
	sc, err := BuildScene(mustScene(t, sceneTOML), WithLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	opts := Options{Formats: []string{FormatSVG, FormatPNG, FormatJSON}, Interactive: true, Source: "scene.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(sc, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	svg := string(artifacts[FormatSVG])
	for _, want := range []string{`class="cell"`, `class="legend"`, "<script", "<title>value heatmap [0, 100]</title>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	img, err := png.Decode(bytes.NewReader(artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("png size = %v", b)
	}

	var doc struct {
		Source string            `json:"source"`
		Shapes []json.RawMessage `json:"shapes"`
	}
	if err := json.Unmarshal(artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json: %v", err)
	}
	if doc.Source != "scene.toml" || len(doc.Shapes) == 0 {
		t.Errorf("json = source %q, %d shapes", doc.Source, len(doc.Shapes))
	}

	if _, err := RenderFormat(sc, "pdf", opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("RenderFormat(pdf) error = %v", err)
	}
}

func TestRenderInteractiveCustomField(t *testing.T) {
	cfg := mustScene(t, `
[plot]
color_field = "temperature"

[data]
values = [[-4.1, 12.0], [30, 7.5]]
`)
	sc, err := BuildScene(cfg, WithLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	data, err := RenderFormat(sc, FormatSVG, Options{Scale: 1, Interactive: true})
	if err != nil {
		t.Fatalf("RenderFormat(svg) error: %v", err)
	}
	svg := string(data)

	for _, want := range []string{
		`class="cell" data-temperature="-4.1"`,
		`data-field="temperature"`,
		"lg.dataset.field",
		"el.getAttribute('data-' + field)",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("interactive SVG missing %q", want)
		}
	}
	if strings.Contains(svg, `class="cell" data-value=`) {
		t.Error("cells should carry the color field, not data-value")
	}
}

// memCache counts reads and writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	events []string
}

func (h *recordingHooks) OnBuildComplete(_ context.Context, cells int, _ time.Duration, err error) {
	h.events = append(h.events, "build")
}
func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}
func (h *recordingHooks) OnCacheHit(_ context.Context, format string)  { h.events = append(h.events, "hit:"+format) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, format string) { h.events = append(h.events, "miss:"+format) }
func (h *recordingHooks) OnCacheSet(_ context.Context, format string, _ int) {
	h.events = append(h.events, "set:"+format)
}

func TestRunnerCaches(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, quiet())
	defer r.Close()
	cfg := mustScene(t, sceneTOML)
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, cfg, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit || first.Scene == nil || first.Stats.Cells != 4 || len(first.SceneHash) != 64 {
		t.Errorf("first run = %+v", first)
	}
	first.Scene.Close()
	if mc.sets != 2 {
		t.Errorf("sets = %d, want 2", mc.sets)
	}

	second, err := r.Execute(ctx, cfg, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheHit || second.Scene != nil {
		t.Errorf("second run should be served from cache: %+v", second)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	refreshed, err := r.Execute(ctx, cfg, Options{Formats: opts.Formats, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit || refreshed.Scene == nil {
		t.Error("refresh should rebuild")
	}
	refreshed.Scene.Close()

	want := []string{
		"miss:svg", "build", "render:svg,json", "set:svg", "set:json",
		"hit:svg", "hit:json",
		"build", "render:svg,json", "set:svg", "set:json",
	}
	got := normalizeSets(hooks.events)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("hook events =\n%v\nwant\n%v", got, want)
	}
}

// normalizeSets orders each run of set events, which follow map iteration.
func normalizeSets(events []string) []string {
	out := append([]string(nil), events...)
	for i := 0; i < len(out); i++ {
		j := i
		for j < len(out) && strings.HasPrefix(out[j], "set:") {
			j++
		}
		if j-i == 2 && out[i] == "set:json" {
			out[i], out[i+1] = out[i+1], out[i]
		}
		if j > i {
			i = j - 1
		}
	}
	return out
}

func TestRunnerSceneChangeMisses(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quiet())

	a, err := r.Execute(ctx, mustScene(t, sceneTOML), Options{})
	if err != nil {
		t.Fatal(err)
	}
	a.Scene.Close()
	b, err := r.Execute(ctx, mustScene(t, sceneTOML+"\n[legend]\nallow_overflow = true\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b.Scene.Close()
	if b.CacheHit || a.SceneHash == b.SceneHash {
		t.Error("a changed scene must not reuse cached artifacts")
	}
}

func TestRunnerRejectsBadFormat(t *testing.T) {
	r := NewRunner(nil, nil, quiet())
	_, err := r.Execute(context.Background(), mustScene(t, sceneTOML), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestExampleScenes(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "scenes", "*.toml"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example scenes: %v", err)
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cfg, err := config.Load(path)
			if err != nil {
				t.Fatalf("config.Load() error: %v", err)
			}
			sc, err := BuildScene(cfg, WithLogger(quiet()))
			if err != nil {
				t.Fatalf("BuildScene() error: %v", err)
			}
			defer sc.Close()

			if got := len(sc.Cells); got != len(cfg.Values()) {
				t.Errorf("cells = %d, want %d", got, len(cfg.Values()))
			}
			if !sc.Legend.State().Rendered() {
				t.Error("legend not rendered")
			}
			if _, err := RenderFormat(sc, FormatSVG, Options{Scale: 1}); err != nil {
				t.Errorf("RenderFormat(svg) error: %v", err)
			}
		})
	}
}
