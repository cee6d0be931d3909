// Package layout resolves where a legend sits inside its host plot.
//
// A legend is placed by a two-part position token such as "right-center". The
// primary side decides the orientation (left and right yield a vertical
// ramp, top and bottom a horizontal one) and pins one axis to an edge; the
// secondary token aligns the other axis.
//
//	pos, err := layout.ParsePosition("right-center")
//	pt := layout.Resolve(layout.Input{
//	    Position: pos,
//	    Insets:   layout.Edges{Top: 10, Right: 10, Bottom: 10, Left: 20},
//	    BBox:     layout.Size{Width: 40, Height: 300},
//	    Plot:     layout.Size{Width: 800, Height: 600},
//	})
//
// Resolve is pure. It never fails: every combination accepted by
// ParsePosition maps to a placement.
package layout

import (
	"strings"

	"github.com/matzehuels/ramplegend/pkg/errors"
)

// Side is one half of a position token.
type Side string

const (
	Top    Side = "top"
	Bottom Side = "bottom"
	Left   Side = "left"
	Right  Side = "right"
	Center Side = "center"
)

// Orientation is the direction the color ramp runs in.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Position is a parsed "primary-secondary" token.
type Position struct {
	Primary   Side
	Secondary Side
}

var (
	primarySides   = map[Side]bool{Top: true, Bottom: true, Left: true, Right: true}
	secondarySides = map[Side]bool{Top: true, Bottom: true, Left: true, Right: true, Center: true}
)

// ParsePosition parses a hyphen-joined position token.
func ParsePosition(token string) (Position, error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) != 2 {
		return Position{}, errors.New(errors.ErrCodeInvalidPosition,
			"position %q must have the form primary-secondary", token)
	}
	p := Position{Primary: Side(parts[0]), Secondary: Side(parts[1])}
	if !primarySides[p.Primary] {
		return Position{}, errors.New(errors.ErrCodeInvalidPosition,
			"unknown primary side %q in position %q", parts[0], token)
	}
	if !secondarySides[p.Secondary] {
		return Position{}, errors.New(errors.ErrCodeInvalidPosition,
			"unknown secondary side %q in position %q", parts[1], token)
	}
	return p, nil
}

// MustParsePosition is like ParsePosition but panics on error.
func MustParsePosition(token string) Position {
	p, err := ParsePosition(token)
	if err != nil {
		panic(err)
	}
	return p
}

// Orientation reports the ramp direction implied by the primary side.
func (p Position) Orientation() Orientation {
	if p.Primary == Left || p.Primary == Right {
		return Vertical
	}
	return Horizontal
}

func (p Position) String() string {
	return string(p.Primary) + "-" + string(p.Secondary)
}

// Positions lists every accepted token in primary-major order.
func Positions() []Position {
	primaries := []Side{Top, Bottom, Left, Right}
	secondaries := []Side{Left, Right, Center, Top, Bottom}
	out := make([]Position, 0, len(primaries)*len(secondaries))
	for _, p := range primaries {
		for _, s := range secondaries {
			out = append(out, Position{Primary: p, Secondary: s})
		}
	}
	return out
}
