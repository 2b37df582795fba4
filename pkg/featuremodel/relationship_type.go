// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"errors"
	"fmt"
)

const (
	// Mandatory is a parent-child edge where the child is always selected
	// with its parent. Stored as mandatory(parent, child).
	Mandatory RelationshipType = "mandatory"
	// Optional is a parent-child edge where the child may be deselected.
	// Stored child first: optional(child, parent).
	Optional RelationshipType = "optional"
	// Or is a group where at least one child is selected with the parent.
	Or RelationshipType = "or"
	// Alternative is a group where exactly one child is selected with the parent.
	Alternative RelationshipType = "alternative"
	// Requires is a cross-tree implication: selecting left selects right.
	Requires RelationshipType = "requires"
	// Excludes is a cross-tree exclusion: left and right are never both selected.
	Excludes RelationshipType = "excludes"
	// ThreeCNF is a general disjunction of signed feature literals.
	ThreeCNF RelationshipType = "3cnf"
)

// ErrInvalidRelationshipType is the sentinel error wrapped by InvalidRelationshipTypeError.
var ErrInvalidRelationshipType = errors.New("invalid relationship type")

type (
	// RelationshipType tags a relationship or constraint. Its string value is
	// the functor used by the canonical rendering (e.g. "mandatory").
	RelationshipType string

	// InvalidRelationshipTypeError is returned when a RelationshipType value is
	// not one of the known types.
	InvalidRelationshipTypeError struct {
		Value RelationshipType
	}
)

// RelationshipTypes returns every known type in canonical order.
func RelationshipTypes() []RelationshipType {
	return []RelationshipType{Mandatory, Optional, Alternative, Or, Requires, Excludes, ThreeCNF}
}

// Error implements the error interface.
func (e *InvalidRelationshipTypeError) Error() string {
	return fmt.Sprintf("invalid relationship type %q", e.Value)
}

// Unwrap returns ErrInvalidRelationshipType for errors.Is() compatibility.
func (e *InvalidRelationshipTypeError) Unwrap() error { return ErrInvalidRelationshipType }

// Validate returns an error if the type is not a known RelationshipType.
func (t RelationshipType) Validate() error {
	switch t {
	case Mandatory, Optional, Or, Alternative, Requires, Excludes, ThreeCNF:
		return nil
	default:
		return &InvalidRelationshipTypeError{Value: t}
	}
}

// String returns the canonical functor name.
func (t RelationshipType) String() string { return string(t) }

// IsStructural reports whether the type belongs in the tree relationships
// of a model rather than in its cross-tree constraints.
func (t RelationshipType) IsStructural() bool {
	switch t {
	case Mandatory, Optional, Or, Alternative:
		return true
	default:
		return false
	}
}

// IsGroup reports whether the type is an OR or ALTERNATIVE group.
func (t RelationshipType) IsGroup() bool { return t == Or || t == Alternative }

// isConstraint reports whether the type is counted among constraints by
// NumOfRelationshipsOfType.
func (t RelationshipType) isConstraint() bool { return t == Requires || t == Excludes }
