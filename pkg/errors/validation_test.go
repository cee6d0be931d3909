package errors

import (
	"strings"
	"testing"
)

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"six digit", "#1890ff", false},
		{"three digit", "#fff", false},
		{"upper case", "#ABCDEF", false},

		{"empty", "", true},
		{"missing hash", "1890ff", true},
		{"named color", "red", true},
		{"rgba function", "rgba(0,0,0,0.5)", true},
		{"bad digits", "#zzzzzz", true},
		{"wrong length", "#12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidColor) {
				t.Errorf("ValidateHexColor(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidColor)
			}
		})
	}
}

func TestValidateOpacity(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0, false},
		{0.45, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
	}

	for _, tt := range tests {
		if err := ValidateOpacity("text", tt.value); (err != nil) != tt.wantErr {
			t.Errorf("ValidateOpacity(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) unexpected error: %v", f, err)
		}
	}
	for _, f := range []string{"", "pdf", "SVG"} {
		if err := ValidateFormat(f); !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) = %v, want %s", f, err, ErrCodeInvalidFormat)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/legend.svg", false},
		{"absolute", "/tmp/legend.png", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "legend\x00.svg", true},
		{"newline", "legend\n.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
