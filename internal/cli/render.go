package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ramplegend/pkg/config"
	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path
	formats     []string // svg, png, json
	scale       float64  // PNG pixel ratio
	interactive bool     // embed the anchor script in SVG output
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1, interactive: true}

	cmd := &cobra.Command{
		Use:   "render <scene.toml>",
		Short: "Render a heatmap scene and its legend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel ratio")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", opts.interactive, "embed hover interaction in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	scene, err := config.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input))
	spin.Start()
	result, err := runner.Execute(ctx, scene, pipeline.Options{
		Formats:     opts.formats,
		Scale:       opts.scale,
		Interactive: opts.interactive,
		Refresh:     opts.refresh,
		Source:      filepath.Base(input),
		Logger:      c.Logger,
	})
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()
	if result.Scene != nil {
		defer result.Scene.Close()
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done("Rendered %s", filepath.Base(input))

	printStats(len(scene.Values()), result.CacheHit)
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format writes to
// output as given; several formats share a base path with per-format
// extensions. Without output the input name is used.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or the extension of
// input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	switch ext := filepath.Ext(output); ext {
	case ".svg", ".png", ".json":
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
