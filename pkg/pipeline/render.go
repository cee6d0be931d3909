package pipeline

import (
	"fmt"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend/sink"
)

// Render exports sc in every requested format.
func Render(sc *Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(sc, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat exports sc in a single format.
func RenderFormat(sc *Scene, format string, opts Options) ([]byte, error) {
	root, w, h := sc.Root(), sc.Width(), sc.Height()
	bg := sc.Config.Plot.Background

	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithTitle(title(sc))}
		if bg != "" {
			svgOpts = append(svgOpts, sink.WithBackground(bg))
		}
		if opts.Interactive {
			svgOpts = append(svgOpts, sink.WithInteraction())
		}
		return sink.RenderSVG(root, w, h, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if bg != "" {
			pngOpts = append(pngOpts, sink.WithPNGBackground(bg))
		}
		data, err := sink.RenderPNG(root, w, h, pngOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "render png")
		}
		return data, nil
	case FormatJSON:
		data, err := sink.RenderJSON(root, w, h, sink.WithJSONSource(opts.Source))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		return data, nil
	}
	return nil, errors.ValidateFormat(format)
}

func title(sc *Scene) string {
	d, _ := sc.Config.Domain()
	return fmt.Sprintf("%s heatmap [%g, %g]", sc.Config.Plot.ColorField, d.Min, d.Max)
}
