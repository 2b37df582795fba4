// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is the sentinel error wrapped by ConstructionError.
	ErrConstruction = errors.New("feature model construction failed")
	// ErrLookup is the sentinel error wrapped by LookupError.
	ErrLookup = errors.New("feature model lookup failed")
)

type (
	// ConstructionError is returned when a construction call would violate a
	// model invariant: empty or duplicate feature name/id, right-side arity
	// mismatch, a relationship type used in the wrong collection, or an
	// unparsable 3-CNF source string. The model is left untouched.
	ConstructionError struct {
		// Op names the construction call that failed (e.g. "add feature").
		Op string
		// Reason describes the violated invariant.
		Reason string
	}

	// LookupError is returned when a feature cannot be resolved by index, id
	// or name.
	LookupError struct {
		// Key is the index, id or name that was looked up.
		Key string
		// Reason describes why the lookup failed.
		Reason string
	}
)

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Unwrap returns ErrConstruction for errors.Is() compatibility.
func (e *ConstructionError) Unwrap() error { return ErrConstruction }

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("feature %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrLookup for errors.Is() compatibility.
func (e *LookupError) Unwrap() error { return ErrLookup }

func constructionErrorf(op, format string, args ...any) error {
	return &ConstructionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
