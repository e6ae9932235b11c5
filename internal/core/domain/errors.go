package domain

import (
	"errors"
	"fmt"
)

// Error kinds of the export and registration pipeline. Every failure is
// terminal for the triggering action; the user may re-trigger manually.
var (
	ErrValidation        = errors.New("invalid input")
	ErrDecoding          = errors.New("text decoding failed")
	ErrExtraction        = errors.New("text extraction failed")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrComposition       = errors.New("report composition failed")
	ErrStore             = errors.New("record store failure")
	ErrGeneration        = errors.New("content generation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", operation, kind)
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
