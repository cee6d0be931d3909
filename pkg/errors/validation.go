package errors

import (
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// ValidateHexColor validates a "#rgb" or "#rrggbb" color string.
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !strings.HasPrefix(s, "#") {
		return New(ErrCodeInvalidColor, "color must be a hex string starting with '#': %q", s)
	}
	if len(s) != 4 && len(s) != 7 {
		return New(ErrCodeInvalidColor, "hex color must be #rgb or #rrggbb: %q", s)
	}
	if _, err := colorful.Hex(s); err != nil {
		return Wrap(ErrCodeInvalidColor, err, "invalid hex color %q", s)
	}
	return nil
}

// ValidateOpacity checks that an opacity lies in [0, 1].
func ValidateOpacity(name string, v float64) error {
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s opacity must be within [0, 1], got %v", name, v)
	}
	return nil
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "json": true}

// ValidateFormat checks that an output format is supported.
func ValidateFormat(format string) error {
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %s (must be 'svg', 'png', or 'json')", format)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
