// Package pkg provides the libraries behind ramplegend, a color ramp legend
// for heatmaps.
//
// # Overview
//
// A heatmap colors its cells by a numeric field. The legend draws that color
// scale as a vertical gradient bar with tick lines and labels, places itself
// inside the plot's bleeding area, and moves an arrow anchor along the bar to
// the value of whatever cell or label the user hovers. The pkg directory is
// organized into these areas:
//
//  1. [legend] - The legend component: layout, gradient rendering, interaction
//  2. [legend/sink] - Export of a rendered scene to SVG, PNG or JSON
//  3. [config] - TOML scene files (plot, legend, data)
//  4. [pipeline] - Orchestration (scene → legend → artifacts) with caching
//  5. [cache] - Artifact caches (file, Redis, null)
//
// # Architecture
//
// The typical data flow:
//
//	scene.toml
//	    ↓
//	[config] package (parse + validate)
//	    ↓
//	[pipeline] package (heatmap cells on a [legend/plot] host)
//	    ↓
//	[legend] package (resolve layout, draw ramp, bind hover events)
//	    ↓
//	[legend/sink] SVG/PNG/JSON output
//
// # Quick Start
//
// Attach a legend to a static plot host and drive it with events:
//
//	host := plot.NewStatic(opts, plot.Theme{Bleeding: plot.Uniform(10)}, panel,
//	    plot.WithScale("value", ramp.Domain{Min: 0, Max: 100}))
//
//	lg, err := legend.New(host, legend.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if err := lg.Render(); err != nil {
//	    return err
//	}
//	defer lg.Destroy()
//
//	host.Bus().Emit(event.Event{Name: "polygon:mousemove", Origin: event.Record{"value": 42.0}})
//	svg := sink.RenderSVG(host.Container(), host.Width(), host.Height(), sink.WithInteraction())
//
// # Main Packages
//
// [legend/layout] - Legend positions (nine anchors such as "right-center"),
// orientation and placement inside the bleeding area.
//
// [legend/ramp] - Domains, ratio mapping, tick values and color interpolation
// between the plot's colors.
//
// [legend/surface] - A small retained scene graph of groups and shapes with
// transforms and timed linear animation.
//
// [legend/event] - The named event bus hosts publish cell and label events on.
//
// [legend/plot] - The Host interface a legend attaches to, and Static, an
// in-memory host used by the pipeline and tests.
//
// [observability] - Hooks for legend, pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every package, with HTTP status mapping.
//
// [buildinfo] - Version information for the CLI and server.
//
// [legend]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend
// [legend/sink]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend/sink
// [legend/layout]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend/layout
// [legend/ramp]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend/ramp
// [legend/surface]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend/surface
// [legend/event]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend/event
// [legend/plot]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/legend/plot
// [config]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ramplegend/pkg/buildinfo
package pkg
