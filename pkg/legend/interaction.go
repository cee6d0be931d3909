package legend

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/ramplegend/pkg/legend/event"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/plot"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
	"github.com/matzehuels/ramplegend/pkg/legend/surface"
	"github.com/matzehuels/ramplegend/pkg/observability"
)

// Hover sources reported to hooks and logs.
const (
	SourceData  = "data"
	SourceLabel = "label"
)

// EventNames returns the data and label event names a legend subscribes to
// for the given mark shape and trigger.
func EventNames(shapeType, trigger string) (data, label string) {
	prefix := "point"
	if shapeType == plot.ShapeRect {
		prefix = "polygon"
	}
	return prefix + ":" + trigger, "label:" + trigger
}

// attach subscribes to the host's hover events. Each disposer is kept so
// release can undo the subscription.
func (l *Legend) attach() {
	src := l.host.Events()
	if src == nil {
		return
	}
	opts := l.host.Options()
	field := opts.ColorField
	dataEvent, labelEvent := EventNames(opts.ShapeType, l.cfg.TriggerOn)

	l.offs = append(l.offs,
		src.On(dataEvent, func(ev event.Event) { l.hover(SourceData, ev.Origin[field]) }),
		src.On(labelEvent, func(ev event.Event) { l.hover(SourceLabel, ev.Data[field]) }),
	)
}

// release disposes every listener registered by attach.
func (l *Legend) release() {
	for _, off := range l.offs {
		off()
	}
	l.offs = nil
}

// Listeners returns how many subscriptions the legend currently holds.
func (l *Legend) Listeners() int { return len(l.offs) }

func (l *Legend) hover(source string, raw any) {
	v, ok := toFloat(raw)
	if !ok {
		l.logger.Debug("ignoring hover without numeric value", "id", l.id, "source", source, "value", raw)
		return
	}
	ratio := l.state.Domain.Ratio(v)
	observability.Legend().OnAnchorMove(l.id, source, ratio)
	l.MoveAnchor(ratio)
}

// MoveAnchor animates the anchor to ratio along the bar. Unless
// AllowOverflow is set, ratio is clamped to [0, 1]. A running animation is
// stopped first, so only the latest target is honored. It does nothing for
// horizontal legends or before a successful render.
func (l *Legend) MoveAnchor(ratio float64) {
	anchor := l.state.anchor
	if anchor == nil || l.destroyed || math.IsNaN(ratio) {
		return
	}
	if !l.cfg.AllowOverflow {
		ratio = ramp.Clamp(ratio)
	}
	size := layout.Size{Width: l.state.Width, Height: l.state.Height}
	offset := l.strategy.length(size) * ratio
	target, ok := l.strategy.anchorTarget(offset)
	if !ok {
		return
	}
	anchor.StopAnimate()
	anchor.Animate(target, AnchorDuration, surface.Linear)
	l.state.Ratio = ratio
	l.state.Offset = offset
	l.logger.Debug("anchor moved", "id", l.id, "ratio", ratio, "offset", offset)
}

// toFloat converts a record value to a number. Strings are parsed.
func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
