package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/ramplegend/pkg/legend/plot"
)

// Inset is one side of the bleeding: a pixel count or a percentage of the
// plot's extent along that side's axis.
type Inset struct {
	Value   float64
	Percent bool
}

// Fixed returns a pixel inset.
func Fixed(v float64) Inset { return Inset{Value: v} }

// Percent returns a percentage inset.
func Percent(p float64) Inset { return Inset{Value: p, Percent: true} }

// UnmarshalTOML accepts integers, floats, and strings such as "12" or "5%".
func (i *Inset) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*i = Fixed(float64(x))
	case float64:
		*i = Fixed(x)
	case string:
		p, err := ParseInset(x)
		if err != nil {
			return err
		}
		*i = p
	default:
		return fmt.Errorf("inset must be a number or percentage string, got %T", v)
	}
	if i.Value < 0 {
		return fmt.Errorf("inset must not be negative, got %v", i.Value)
	}
	return nil
}

// MarshalText renders the inset so Encode round-trips.
func (i Inset) MarshalText() ([]byte, error) {
	s := strconv.FormatFloat(i.Value, 'g', -1, 64)
	if i.Percent {
		s += "%"
	}
	return []byte(s), nil
}

// ParseInset parses "12", "12.5" or "5%".
func ParseInset(s string) (Inset, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return Inset{}, fmt.Errorf("invalid inset %q", s)
	}
	return Inset{Value: v, Percent: pct}, nil
}

func (i Inset) inset(extent func(plot.Options) float64) plot.Inset {
	if !i.Percent {
		return plot.Fixed(i.Value)
	}
	p := i.Value / 100
	return plot.Func(func(o plot.Options) float64 { return extent(o) * p })
}
