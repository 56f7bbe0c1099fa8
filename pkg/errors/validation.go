package errors

import (
	"strings"
	"unicode"
)

// maxLabelLength bounds stage and instruction labels. Longer labels do not fit
// in a stage box or the row gutter anyway.
const maxLabelLength = 256

// ValidateLabel validates a stage or instruction label.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters (labels end up in SVG text and DOT strings)
//   - Maximum length of 256 characters
//
// kind is used in the message, e.g. "stage" or "instruction".
func ValidateLabel(kind, label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "%s label cannot be empty", kind)
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "%s label too long (max %d characters)", kind, maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s label contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateExampleName validates a catalog example name taken from a URL or
// command line. It rejects names that could be used for path traversal when
// the name is reused to derive output file names.
func ValidateExampleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "example name cannot be empty")
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "example name contains invalid characters: %q", pattern)
		}
	}

	return nil
}
