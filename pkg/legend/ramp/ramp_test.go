package ramp

import (
	"math"
	"testing"

	"github.com/matzehuels/ramplegend/pkg/errors"
)

var fiveColors = []string{"#000000", "#404040", "#808080", "#c0c0c0", "#ffffff"}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		colors []string
		domain Domain
		code   errors.Code
	}{
		{"single color", []string{"#ff0000"}, Domain{0, 1}, errors.ErrCodeInvalidRamp},
		{"empty", nil, Domain{0, 1}, errors.ErrCodeInvalidRamp},
		{"bad color", []string{"#ff0000", "blue"}, Domain{0, 1}, errors.ErrCodeInvalidRamp},
		{"nan domain", []string{"#000", "#fff"}, Domain{math.NaN(), 1}, errors.ErrCodeInvalidRamp},
		{"valid", []string{"#000", "#fff"}, Domain{0, 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.colors, tt.domain)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("New() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestStops(t *testing.T) {
	r, err := New(fiveColors, Domain{0, 100})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	stops := r.Stops()
	if len(stops) != len(want) {
		t.Fatalf("Stops() len = %d, want %d", len(stops), len(want))
	}
	for i, s := range stops {
		if s.Offset != want[i] {
			t.Errorf("stop %d offset = %v, want %v", i, s.Offset, want[i])
		}
		if s.Color != fiveColors[i] {
			t.Errorf("stop %d color = %v, want %v", i, s.Color, fiveColors[i])
		}
	}
}

func TestTicks(t *testing.T) {
	r, err := New(fiveColors, Domain{0, 100})
	if err != nil {
		t.Fatal(err)
	}
	ticks := r.Ticks(200, nil)
	wantPos := []float64{0, 50, 100, 150, 200}
	wantLabel := []string{"0", "25", "50", "75", "100"}
	for i, tk := range ticks {
		if tk.Pos != wantPos[i] {
			t.Errorf("tick %d pos = %v, want %v", i, tk.Pos, wantPos[i])
		}
		if tk.Label != wantLabel[i] {
			t.Errorf("tick %d label = %q, want %q", i, tk.Label, wantLabel[i])
		}
	}
}

func TestTicksOffsetDomain(t *testing.T) {
	tests := []struct {
		domain Domain
		want   []string
	}{
		{Domain{-10, 11}, []string{"-10", "1", "11"}},
		{Domain{-5, 0}, []string{"-5", "-2", "0"}}, // halves round up
	}
	for _, tt := range tests {
		r, _ := New([]string{"#000", "#888", "#fff"}, tt.domain)
		for i, tk := range r.Ticks(10, nil) {
			if tk.Label != tt.want[i] {
				t.Errorf("%v tick %d label = %q, want %q", tt.domain, i, tk.Label, tt.want[i])
			}
		}
	}
}

func TestTicksCustomFormatter(t *testing.T) {
	r, _ := New([]string{"#000", "#fff"}, Domain{0, 1})
	got := r.Ticks(100, func(v float64) string {
		if v == 0 {
			return "low"
		}
		return "high"
	})
	if got[0].Label != "low" || got[1].Label != "high" {
		t.Errorf("labels = %q, %q", got[0].Label, got[1].Label)
	}
}

func TestRoundFormatter(t *testing.T) {
	tests := map[float64]string{
		0:     "0",
		-0.4:  "0",
		12.5:  "13",
		-12.5: "-12",
		-2.5:  "-2",
		-2.6:  "-3",
		-0.5:  "0",
		99.49: "99",
	}
	for in, want := range tests {
		if got := RoundFormatter(in); got != want {
			t.Errorf("RoundFormatter(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRatio(t *testing.T) {
	d := Domain{0, 100}
	tests := []struct {
		value, want float64
	}{
		{50, 0.5},
		{0, 0},
		{100, 1},
		{150, 1.5},
		{-50, -0.5},
	}
	for _, tt := range tests {
		if got := d.Ratio(tt.value); got != tt.want {
			t.Errorf("Ratio(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
	if got := (Domain{5, 5}).Ratio(7); got != 0 {
		t.Errorf("degenerate Ratio() = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[float64]float64{-0.5: 0, 0: 0, 0.3: 0.3, 1: 1, 1.5: 1} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestColorAt(t *testing.T) {
	r, _ := New([]string{"#000000", "#ffffff"}, Domain{0, 1})

	if got := r.ColorAt(0).Hex(); got != "#000000" {
		t.Errorf("ColorAt(0) = %s", got)
	}
	if got := r.ColorAt(1).Hex(); got != "#ffffff" {
		t.Errorf("ColorAt(1) = %s", got)
	}
	if got := r.ColorAt(2).Hex(); got != "#ffffff" {
		t.Errorf("ColorAt(2) = %s, want clamped white", got)
	}
	mid := r.ColorAt(0.5)
	if math.Abs(mid.R-0.5) > 1e-9 {
		t.Errorf("ColorAt(0.5).R = %v, want 0.5", mid.R)
	}
	if got := r.ColorFor(1); got != "#ffffff" {
		t.Errorf("ColorFor(1) = %s", got)
	}
}
