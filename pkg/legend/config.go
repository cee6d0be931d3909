package legend

import (
	"time"

	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/legend/layout"
	"github.com/matzehuels/ramplegend/pkg/legend/ramp"
)

// Defaults applied by DefaultConfig and by New for zero-valued fields.
const (
	DefaultPosition  = "right-center"
	DefaultTriggerOn = "mousemove"
	DefaultFontSize  = 12.0
	DefaultOpacity   = 0.45
	DefaultLineWidth = 1.0
	DefaultInk       = "#000000"

	// AnchorDuration is how long the anchor takes to reach a new value.
	AnchorDuration = 400 * time.Millisecond

	// LabelGap separates the bar from its labels.
	LabelGap = 4.0

	anchorWidth   = 10.0
	anchorHeight  = 14.0
	anchorOpacity = 0.5
)

// TextStyle styles tick labels.
type TextStyle struct {
	FontSize float64
	Fill     string
	// Opacity zero selects DefaultOpacity, so labels cannot be made fully
	// transparent; hide the legend with Config.Visible instead.
	Opacity float64
	// Formatter renders tick values. Nil means rounded integers.
	Formatter ramp.Formatter
}

// LineStyle styles tick lines. As with TextStyle, a zero Opacity selects
// DefaultOpacity.
type LineStyle struct {
	LineWidth float64
	Stroke    string
	Opacity   float64
}

// Config holds the legend options accepted at construction.
//
// Start from DefaultConfig: a zero Config is not visible. Other zero-valued
// fields are replaced by their defaults in New.
type Config struct {
	Visible bool
	// Position is a "primary-secondary" token such as "right-center".
	Position string
	// Width and Height override the host-derived size when positive.
	Width, Height float64

	Text     TextStyle
	Gridline LineStyle

	// TriggerOn is the event suffix the legend listens for.
	TriggerOn string

	// AllowOverflow lets the anchor travel past the ends of the bar for
	// values outside the scale domain. By default ratios are clamped.
	AllowOverflow bool
}

// DefaultConfig returns a visible right-center legend with default styles.
func DefaultConfig() Config {
	return Config{
		Visible:  true,
		Position: DefaultPosition,
		Text: TextStyle{
			FontSize: DefaultFontSize,
			Fill:     DefaultInk,
			Opacity:  DefaultOpacity,
		},
		Gridline: LineStyle{
			LineWidth: DefaultLineWidth,
			Stroke:    DefaultInk,
			Opacity:   DefaultOpacity,
		},
		TriggerOn: DefaultTriggerOn,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Position == "" {
		c.Position = d.Position
	}
	if c.Text.FontSize <= 0 {
		c.Text.FontSize = d.Text.FontSize
	}
	if c.Text.Fill == "" {
		c.Text.Fill = d.Text.Fill
	}
	if c.Text.Opacity == 0 {
		c.Text.Opacity = d.Text.Opacity
	}
	if c.Gridline.LineWidth <= 0 {
		c.Gridline.LineWidth = d.Gridline.LineWidth
	}
	if c.Gridline.Stroke == "" {
		c.Gridline.Stroke = d.Gridline.Stroke
	}
	if c.Gridline.Opacity == 0 {
		c.Gridline.Opacity = d.Gridline.Opacity
	}
	if c.TriggerOn == "" {
		c.TriggerOn = d.TriggerOn
	}
	return c
}

// Validate checks the configuration and returns the parsed position.
func (c Config) Validate() (layout.Position, error) {
	pos, err := layout.ParsePosition(c.Position)
	if err != nil {
		return layout.Position{}, err
	}
	if c.Width < 0 || c.Height < 0 {
		return layout.Position{}, errors.New(errors.ErrCodeInvalidConfig,
			"legend size must not be negative, got %vx%v", c.Width, c.Height)
	}
	if err := errors.ValidateHexColor(c.Text.Fill); err != nil {
		return layout.Position{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "text fill")
	}
	if err := errors.ValidateHexColor(c.Gridline.Stroke); err != nil {
		return layout.Position{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "gridline stroke")
	}
	if err := errors.ValidateOpacity("text", c.Text.Opacity); err != nil {
		return layout.Position{}, err
	}
	if err := errors.ValidateOpacity("gridline", c.Gridline.Opacity); err != nil {
		return layout.Position{}, err
	}
	return pos, nil
}
