package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ramplegend/pkg/errors"
)

const testScene = `
[legend]
position = "right-center"

[data]
values = [[0, 50], [100, 25]]
`

func quietCLI() *CLI {
	return &CLI{Logger: log.New(io.Discard)}
}

func writeScene(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and case", " SVG , json ,", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"input name", "", []string{"svg"}, map[string]string{"svg": "data/heat.svg"}},
		{"explicit single", "out/legend.svg", []string{"svg"}, map[string]string{"svg": "out/legend.svg"}},
		{"single keeps odd extension", "out/legend.img", []string{"png"}, map[string]string{"png": "out/legend.img"}},
		{"base with extension", "out/legend.svg", []string{"svg", "png"},
			map[string]string{"svg": "out/legend.svg", "png": "out/legend.png"}},
		{"bare base", "out/legend", []string{"json", "png"},
			map[string]string{"json": "out/legend.json", "png": "out/legend.png"}},
		{"input base", "", []string{"svg", "json"},
			map[string]string{"svg": "data/heat.svg", "json": "data/heat.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "data/heat.toml", tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.svg")
	if err := writeOutput(path, []byte("<svg/>")); err != nil {
		t.Fatalf("writeOutput() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("file = %q, %v", data, err)
	}

	if err := writeOutput("", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("empty path: %v", err)
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	input := writeScene(t, dir, testScene)

	c := quietCLI()
	opts := renderOpts{
		output:      filepath.Join(dir, "out", "heat"),
		formats:     []string{"svg", "json"},
		scale:       1,
		interactive: true,
	}
	for range 2 {
		if err := c.runRender(context.Background(), input, opts); err != nil {
			t.Fatalf("runRender() error: %v", err)
		}
	}

	svg, err := os.ReadFile(filepath.Join(dir, "out", "heat.svg"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", `class="legend"`, "<script", "value heatmap [0, 100]"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "heat.json")); err != nil {
		t.Errorf("JSON output missing: %v", err)
	}

	if n := countEntries(filepath.Join(dir, "cache", appName)); n != 2 {
		t.Errorf("cache entries = %d, want 2", n)
	}
}

func TestRunRenderErrors(t *testing.T) {
	dir := t.TempDir()
	c := quietCLI()
	opts := renderOpts{formats: []string{"svg"}, scale: 1, noCache: true}

	if err := c.runRender(context.Background(), filepath.Join(dir, "missing.toml"), opts); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	bad := writeScene(t, dir, "[legend]\nposition = \"middle\"\n[data]\nvalues = [[1, 2]]\n")
	if err := c.runRender(context.Background(), bad, opts); !errors.Is(err, errors.ErrCodeInvalidPosition) {
		t.Errorf("bad position: %v", err)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	root := quietCLI().RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "scene.toml", "-f", "pdf"})
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() = %v, want INVALID_FORMAT", err)
	}
}
