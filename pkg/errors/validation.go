package errors

import (
	"math"
	"strings"
	"unicode"
)

// DPI bounds accepted by ValidateDPI.
const (
	MinDPI = 36
	MaxDPI = 2400
)

// ValidateDPI checks that dpi is within [MinDPI, MaxDPI].
func ValidateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return New(ErrCodeInvalidInput, "dpi must be between %d and %d, got %d", MinDPI, MaxDPI, dpi)
	}
	return nil
}

// ValidateLength checks that a length in millimeters is finite and not negative.
// When positive is set, zero is rejected as well.
func ValidateLength(name string, mm float64, positive bool) error {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if mm < 0 || (positive && mm == 0) {
		if positive {
			return New(ErrCodeInvalidInput, "%s must be greater than zero, got %g", name, mm)
		}
		return New(ErrCodeInvalidInput, "%s cannot be negative, got %g", name, mm)
	}
	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength).WithPath(path)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters").WithPath(path)
		}
	}

	return nil
}
