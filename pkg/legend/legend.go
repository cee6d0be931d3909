// Package legend draws a color-ramp legend for heatmap-style plots and keeps
// its anchor marker in sync with the value under the pointer.
//
// A Legend is attached to a plot.Host. Render builds the gradient bar, one
// tick line and label per ramp color and a triangular anchor into a group of
// the host's container, places that group according to the configured
// position token and subscribes to the host's hover events. Each qualifying
// event maps the hovered value onto the scale domain and animates the anchor
// to the matching offset along the bar.
//
//	host := plot.NewStatic(opts, theme, panel, plot.WithScale("value", domain))
//	lg, err := legend.New(host, legend.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if err := lg.Render(); err != nil {
//	    return err
//	}
//	defer lg.Destroy()
//
// Only vertical legends (primary side left or right) render; horizontal
// positions are accepted and laid out but Render reports them unsupported.
//
// A Legend is not safe for concurrent use. Like the host's event loop, it
// expects render calls and event handlers on a single goroutine.
package legend

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/plot"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
	"github.com/matzehuels/ramplegend/pkg/observability"
)

// Legend is a color-ramp legend bound to one host plot.
type Legend struct {
	id       string
	host     plot.Host
	cfg      Config
	pos      layout.Position
	strategy strategy
	group    *surface.Group
	logger   *log.Logger

	state     State
	offs      []func()
	destroyed bool
}

// Option configures a Legend.
type Option func(*Legend)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(lg *Legend) {
		if l != nil {
			lg.logger = l
		}
	}
}

// WithID overrides the generated legend ID. The ID names the legend group
// and its gradient in exported documents.
func WithID(id string) Option {
	return func(lg *Legend) {
		if id != "" {
			lg.id = id
		}
	}
}

// New validates cfg against the host and adds an empty legend group to the
// host container. Invalid position tokens, styles and color ramps with fewer
// than two colors are rejected here rather than at render time.
func New(host plot.Host, cfg Config, opts ...Option) (*Legend, error) {
	if host == nil || host.Container() == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "legend needs a host with a container")
	}
	cfg = cfg.withDefaults()
	pos, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := ramp.New(host.Options().Colors, ramp.Domain{Min: 0, Max: 1}); err != nil {
		return nil, err
	}

	lg := &Legend{
		id:       "legend-" + uuid.NewString()[:8],
		host:     host,
		cfg:      cfg,
		pos:      pos,
		strategy: strategyFor(pos.Orientation()),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(lg)
	}

	lg.group = host.Container().AddGroup()
	lg.group.ID = lg.id
	lg.group.Class = "legend"
	lg.state.Orientation = pos.Orientation()
	return lg, nil
}

// ID returns the legend's identifier.
func (l *Legend) ID() string { return l.id }

// Config returns the effective configuration, defaults applied.
func (l *Legend) Config() Config { return l.cfg }

// Position returns the parsed position token.
func (l *Legend) Position() layout.Position { return l.pos }

// Orientation returns the ramp direction.
func (l *Legend) Orientation() layout.Orientation { return l.pos.Orientation() }

// Group returns the legend's root group.
func (l *Legend) Group() *surface.Group { return l.group }

// State returns the values produced by the last render pass and the current
// anchor target.
func (l *Legend) State() State { return l.state }

// Destroyed reports whether Destroy has been called.
func (l *Legend) Destroyed() bool { return l.destroyed }

// Size returns the legend size for the current host geometry: configured
// width and height when set, host-derived defaults otherwise.
func (l *Legend) Size() layout.Size {
	size := layout.DefaultSize(l.pos.Orientation(), l.host.Options().Width, l.host.PanelRange().Height)
	if l.cfg.Width > 0 {
		size.Width = l.cfg.Width
	}
	if l.cfg.Height > 0 {
		size.Height = l.cfg.Height
	}
	return size
}

// Render rebuilds the legend from the host's current scale and geometry.
//
// Previous shapes and listeners are released first, so repeated renders
// with the same inputs produce identical geometry. A hidden legend renders
// nothing. Rendering a destroyed legend fails with LEGEND_DESTROYED.
func (l *Legend) Render() (err error) {
	if l.destroyed {
		return errors.New(errors.ErrCodeDestroyed, "legend %s has been destroyed", l.id)
	}
	start := time.Now()
	defer func() {
		observability.Legend().OnRender(l.id, l.pos.Orientation().String(),
			len(l.group.Shapes()), time.Since(start), err)
	}()

	l.release()
	l.group.Clear()
	l.group.Data = nil
	l.state = State{Orientation: l.pos.Orientation()}
	if !l.cfg.Visible {
		l.logger.Debug("legend hidden", "id", l.id)
		return nil
	}

	opts := l.host.Options()
	domain, ok := l.host.Scale(opts.ColorField)
	if !ok {
		return errors.New(errors.ErrCodeScaleNotFound, "no scale for color field %q", opts.ColorField)
	}
	r, err := ramp.New(opts.Colors, domain)
	if err != nil {
		return err
	}

	size := l.Size()
	anchor, err := l.strategy.render(l, r, size)
	if err != nil {
		l.group.Clear()
		return err
	}

	pt := l.place(size)
	l.group.Data = map[string]string{
		"min":      formatFloat(domain.Min),
		"max":      formatFloat(domain.Max),
		"height":   formatFloat(size.Height),
		"field":    opts.ColorField,
		"trigger":  l.cfg.TriggerOn,
		"overflow": strconv.FormatBool(l.cfg.AllowOverflow),
	}
	l.state = State{
		X:           pt.X,
		Y:           pt.Y,
		Width:       size.Width,
		Height:      size.Height,
		Domain:      domain,
		Orientation: l.pos.Orientation(),
		Ticks:       r.Ticks(size.Height, l.cfg.Text.Formatter),
		anchor:      anchor,
	}
	l.attach()

	l.logger.Debug("legend rendered",
		"id", l.id, "position", l.pos, "x", pt.X, "y", pt.Y,
		"width", size.Width, "height", size.Height, "colors", r.Len())
	return nil
}

// place resolves the legend's offset and applies it as the group transform.
func (l *Legend) place(size layout.Size) layout.Point {
	opts := l.host.Options()
	panel := l.host.PanelRange()
	pt := layout.Resolve(layout.Input{
		Position:   l.pos,
		Insets:     l.host.Theme().Bleeding.Resolve(opts),
		BBox:       l.group.BBox().Size(),
		Plot:       layout.Size{Width: l.host.Width(), Height: l.host.Height()},
		PanelY:     panel.Y,
		FullHeight: size.Height == panel.Height,
	})
	l.group.SetTransform(gg.Translate(pt.X, pt.Y))
	return pt
}

// Clear removes the legend's shapes and listeners. The group stays attached
// and a later Render draws into it again.
func (l *Legend) Clear() {
	l.release()
	l.group.Clear()
	l.group.Data = nil
	l.state = State{Orientation: l.pos.Orientation()}
}

// Destroy releases every listener and detaches the legend group from the
// host container. It is terminal: later Render calls fail and draw nothing.
func (l *Legend) Destroy() {
	if l.destroyed {
		return
	}
	n := len(l.offs)
	if a := l.state.anchor; a != nil {
		a.StopAnimate()
	}
	l.release()
	l.group.Remove()
	l.destroyed = true
	observability.Legend().OnDestroy(l.id, n)
	l.logger.Debug("legend destroyed", "id", l.id, "listeners", n)
}

// BBox returns the placed bounding box in plot coordinates: the resolved
// offset and the size of the rendered content.
func (l *Legend) BBox() layout.Rect {
	size := l.group.BBox().Size()
	return layout.Rect{X: l.state.X, Y: l.state.Y, Width: size.Width, Height: size.Height}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
