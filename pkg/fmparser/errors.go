// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("feature model parse failed")

	// ErrUnsupportedFormat is returned when no reader accepts a file, or a
	// reader is asked for a file it does not recognize.
	ErrUnsupportedFormat = errors.New("unsupported feature model format")

	// ErrNoFeatures is returned when a file describes no features.
	ErrNoFeatures = errors.New("no features found")

	// ErrFileTooLarge is returned when a file exceeds Options.MaxFileSize.
	ErrFileTooLarge = errors.New("model file too large")
)

// ParseError describes a failure to read one model file.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Format == FormatNone {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse %s (%s): %v", e.Path, e.Format, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
