package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLabelLength bounds point and figure labels so they stay readable on a
// diagram and usable as file name fragments.
const maxLabelLength = 32

// labelRegex matches point labels: a letter followed by letters, digits,
// primes or underscores (A, B1, P', O_2).
var labelRegex = regexp.MustCompile(`^\p{L}[\p{L}0-9'_]*$`)

// ValidateLabel validates a point label used in a figure block.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", maxLabelLength)
	}
	if !labelRegex.MatchString(label) {
		return New(ErrCodeInvalidLabel, "invalid label: %q", label)
	}
	return nil
}

// ValidateFileStem validates the stem used to name a figure artifact.
// It ensures the stem is a simple basename without path components.
func ValidateFileStem(stem string) error {
	if stem == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	for _, r := range stem {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid control characters")
		}
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(stem, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}
	if stem == "." || stem == ".." || strings.HasPrefix(stem, ".") {
		return New(ErrCodeInvalidPath, "file name cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates an output directory argument.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// SanitizeFileStem turns a free-form figure name into a safe file stem.
// Runs of characters outside [A-Za-z0-9_-] collapse into a single '-'.
func SanitizeFileStem(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range name {
		ok := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-')
		if ok {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "figure"
	}
	return out
}
