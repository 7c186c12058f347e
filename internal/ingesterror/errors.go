// Package ingesterror defines the typed errors raised by the ingestion
// pipeline. These cross package boundaries internally; at the pipeline
// boundary they are converted to per-item error records.
package ingesterror

import (
	"fmt"
	"strings"
)

// InvalidInputError indicates that the ingestion request itself is malformed,
// e.g. an unknown channel type. This is the one error class that fails a
// whole request rather than a single item.
type InvalidInputError struct {
	Value string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %q", e.Msg, e.Value)
	}
	return e.Msg
}

// OCRError represents a failure to decode or recognize a receipt image.
type OCRError struct {
	ImagePath string
	Stage     string // "decode", "preprocess" or "recognize"
	Err       error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("OCR failed for %s during %s: %v", e.ImagePath, e.Stage, e.Err)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// AnnotationError represents a malformed annotation document.
type AnnotationError struct {
	FilePath string
	Err      error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("failed to parse annotations %s: %v", e.FilePath, e.Err)
}

func (e *AnnotationError) Unwrap() error {
	return e.Err
}

// AmountError indicates an amount string the user supplied explicitly could
// not be parsed. It is distinct from "no numeric token present", which the
// extractor treats as a zero amount.
type AmountError struct {
	Value string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("cannot parse amount from %q", e.Value)
}

// ModelLoadError indicates that one or more classifier artifact files could
// not be loaded. It is fatal for the process's classification capability.
type ModelLoadError struct {
	Dir     string
	Missing []string
	Err     error
}

func (e *ModelLoadError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("classifier artifacts not found in %s: %s", e.Dir, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("failed to load classifier artifacts from %s: %v", e.Dir, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}
