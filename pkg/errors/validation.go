package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a board, layer, or net name supplied by a user.
// Names end up in SVG ids and OBJ object names, so whitespace and control
// characters are rejected. An empty name is valid (it means "unnamed").
func ValidateName(kind, name string) error {
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "%s name too long (max 128 characters)", kind)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s name %q contains whitespace or control characters", kind, name)
		}
	}
	return nil
}

// artifactNameRegex matches artifact names such as "top.svg" or "board.obj".
var artifactNameRegex = regexp.MustCompile(`^[a-z0-9_-]+\.[a-z0-9]+$`)

// ValidateArtifactName validates an artifact name requested over the API.
func ValidateArtifactName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "artifact name cannot be empty")
	}
	if !artifactNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid artifact name: %q", name)
	}
	return nil
}

// ValidateDimension validates a physical length in millimetres.
// Dimensions must be finite and positive; allowZero also accepts 0.
func ValidateDimension(field string, mm float64, allowZero bool) error {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	if mm < 0 || (mm == 0 && !allowZero) {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", field, mm)
	}
	if mm > 1000 {
		return New(ErrCodeInvalidInput, "%s of %g mm is out of range", field, mm)
	}
	return nil
}

// ValidatePath validates an output path for safety.
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

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
