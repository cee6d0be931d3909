package pipeline

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ramplegend/pkg/config"
	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend"
	"github.com/matzehuels/ramplegend/pkg/legend/event"
	"github.com/matzehuels/ramplegend/pkg/legend/plot"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
)

// ClassCell marks heatmap cells. Sinks and the interactive SVG script use it
// to find hover targets.
const ClassCell = "cell"

// Scene is a built heatmap with its legend attached and rendered.
type Scene struct {
	Config *config.Scene
	Host   *plot.Static
	Legend *legend.Legend
	// Cells holds the heatmap marks in row order.
	Cells []*surface.Shape
}

// BuildOption configures BuildScene.
type BuildOption func(*buildOptions)

type buildOptions struct {
	clock  func() time.Time
	logger *log.Logger
}

// WithClock sets the clock the scene's animations run on.
func WithClock(c func() time.Time) BuildOption {
	return func(o *buildOptions) { o.clock = c }
}

// WithLogger sets the logger handed to the legend.
func WithLogger(l *log.Logger) BuildOption {
	return func(o *buildOptions) { o.logger = l }
}

// BuildScene creates a static host from cfg, draws one rect per data value
// in the panel colored by the plot's ramp, then attaches and renders the
// legend.
func BuildScene(cfg *config.Scene, opts ...BuildOption) (*Scene, error) {
	bo := buildOptions{clock: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(&bo)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	domain, ok := cfg.Domain()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "data.values holds no finite value")
	}
	colors, err := ramp.New(cfg.Plot.Colors, domain)
	if err != nil {
		return nil, err
	}

	host := plot.NewStatic(cfg.Options(), cfg.Theme(), cfg.PanelRect(),
		plot.WithCanvas(surface.NewCanvas(surface.WithClock(bo.clock))),
		plot.WithScale(cfg.Plot.ColorField, domain),
	)
	sc := &Scene{Config: cfg, Host: host}
	sc.Cells = drawCells(host, cfg, colors)

	lg, err := legend.New(host, cfg.LegendConfig(), legend.WithLogger(bo.logger))
	if err != nil {
		return nil, err
	}
	if err := lg.Render(); err != nil {
		lg.Destroy()
		return nil, err
	}
	sc.Legend = lg
	return sc, nil
}

func drawCells(host *plot.Static, cfg *config.Scene, colors *ramp.Ramp) []*surface.Shape {
	panel := host.PanelRange()
	rows := cfg.Data.Values
	g := host.Container().AddGroup()
	g.ID, g.Class = "heatmap", "heatmap"
	g.Translate(panel.X, panel.Y)

	cw := panel.Width / float64(len(rows[0]))
	ch := panel.Height / float64(len(rows))
	field := cfg.Plot.ColorField
	cells := make([]*surface.Shape, 0, len(rows)*len(rows[0]))
	for r, row := range rows {
		for c, v := range row {
			cells = append(cells, g.AddShape(surface.KindRect, surface.Attrs{
				X:      float64(c) * cw,
				Y:      float64(r) * ch,
				Width:  cw,
				Height: ch,
				Fill:   colors.ColorFor(v),
				Class:  ClassCell,
				Data:   map[string]string{field: strconv.FormatFloat(v, 'g', -1, 64)},
			}))
		}
	}
	return cells
}

// Width returns the frame width.
func (s *Scene) Width() float64 { return s.Host.Width() }

// Height returns the frame height.
func (s *Scene) Height() float64 { return s.Host.Height() }

// Root returns the scene's canvas.
func (s *Scene) Root() *surface.Group { return s.Host.Container() }

// Hover emits the pointer event the host would send when the cell at
// (row, col) is entered, moving the legend anchor.
func (s *Scene) Hover(row, col int) bool {
	rows := s.Config.Data.Values
	if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row]) {
		return false
	}
	name, _ := legend.EventNames(s.Config.Plot.ShapeType, s.Legend.Config().TriggerOn)
	s.Host.Bus().Emit(newEvent(name, s.Config.Plot.ColorField, rows[row][col], false))
	return true
}

// HoverLabel emits the event for entering the legend label of tick i.
func (s *Scene) HoverLabel(i int) bool {
	ticks := s.Legend.State().Ticks
	if i < 0 || i >= len(ticks) {
		return false
	}
	_, name := legend.EventNames(s.Config.Plot.ShapeType, s.Legend.Config().TriggerOn)
	s.Host.Bus().Emit(newEvent(name, s.Config.Plot.ColorField, ticks[i].Value, true))
	return true
}

// Close destroys the legend and releases its listeners.
func (s *Scene) Close() {
	if s.Legend != nil {
		s.Legend.Destroy()
	}
}

func newEvent(name, field string, v float64, label bool) event.Event {
	rec := event.Record{field: v}
	if label {
		return event.Event{Name: name, Data: rec}
	}
	return event.Event{Name: name, Origin: rec}
}
