// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"slices"
	"strings"
)

// threeCNFSeparator joins the literals of a 3-CNF source string.
const threeCNFSeparator = " | "

type (
	// Relationship is the closed set of relationship shapes stored in a
	// FeatureModel: *BasicRelationship and *ThreeCNFConstraint. The unexported
	// marker method keeps the set closed to this package.
	Relationship interface {
		// Type returns the relationship tag.
		Type() RelationshipType
		// IsType reports whether the relationship carries tag t.
		IsType(t RelationshipType) bool
		// IsOptional is true for OPTIONAL and OR relationships.
		IsOptional() bool
		// PresentAtLeftSide reports whether f is the left operand.
		// Always false for 3-CNF constraints.
		PresentAtLeftSide(f Feature) bool
		// PresentAtRightSide reports whether f is among the right operands.
		// Always false for 3-CNF constraints.
		PresentAtRightSide(f Feature) bool
		// Contains reports whether a clause names f. Always false for basic
		// relationships.
		Contains(f Feature) bool
		// ConfRule returns the canonical one-line rendering.
		ConfRule() string

		relationship()
	}

	// BasicRelationship is a typed edge from one left feature to an ordered
	// list of right features.
	BasicRelationship struct {
		typ   RelationshipType
		left  Feature
		right []Feature
	}

	// ThreeCNFConstraint is an ordered disjunction of clauses.
	ThreeCNFConstraint struct {
		clauses []Clause
	}
)

// NewBasicRelationship validates the per-type right-side arity and returns
// the relationship. MANDATORY, OPTIONAL, REQUIRES and EXCLUDES take exactly
// one right feature; OR and ALTERNATIVE take more than one.
func NewBasicRelationship(typ RelationshipType, left Feature, right []Feature) (*BasicRelationship, error) {
	const op = "create relationship"
	if err := typ.Validate(); err != nil {
		return nil, constructionErrorf(op, "%v", err)
	}
	if typ == ThreeCNF {
		return nil, constructionErrorf(op, "type %s needs a clause list, not features", typ)
	}
	if left == (Feature{}) {
		return nil, constructionErrorf(op, "%s has no left-side feature", typ)
	}
	for _, f := range right {
		if f == (Feature{}) {
			return nil, constructionErrorf(op, "%s(%s, ...) has an empty right-side feature", typ, left)
		}
	}

	switch typ {
	case Mandatory, Optional, Requires, Excludes:
		if len(right) != 1 {
			return nil, constructionErrorf(op, "%s(%s, ...) needs exactly one right-side feature, got %d", typ, left, len(right))
		}
	case Or, Alternative:
		if len(right) < 2 {
			return nil, constructionErrorf(op, "%s(%s, ...) needs more than one right-side feature, got %d", typ, left, len(right))
		}
	}

	return &BasicRelationship{typ: typ, left: left, right: slices.Clone(right)}, nil
}

// Type returns the relationship tag.
func (r *BasicRelationship) Type() RelationshipType { return r.typ }

// IsType reports whether the relationship carries tag t.
func (r *BasicRelationship) IsType(t RelationshipType) bool { return r.typ == t }

// IsOptional is true for OPTIONAL and OR relationships.
func (r *BasicRelationship) IsOptional() bool { return r.typ == Optional || r.typ == Or }

// Left returns the left operand.
func (r *BasicRelationship) Left() Feature { return r.left }

// Right returns a copy of the right operands in storage order.
func (r *BasicRelationship) Right() []Feature { return slices.Clone(r.right) }

// PresentAtLeftSide reports whether f is the left operand.
func (r *BasicRelationship) PresentAtLeftSide(f Feature) bool { return r.left == f }

// PresentAtRightSide reports whether f is among the right operands.
func (r *BasicRelationship) PresentAtRightSide(f Feature) bool {
	return slices.Contains(r.right, f)
}

// Contains is always false for basic relationships.
func (r *BasicRelationship) Contains(Feature) bool { return false }

// ConfRule renders the relationship as type(Left, R1, R2, ...).
func (r *BasicRelationship) ConfRule() string {
	args := make([]string, 0, len(r.right)+1)
	args = append(args, r.left.Name())
	for _, f := range r.right {
		args = append(args, f.Name())
	}
	return string(r.typ) + "(" + strings.Join(args, ", ") + ")"
}

// String returns ConfRule.
func (r *BasicRelationship) String() string { return r.ConfRule() }

func (r *BasicRelationship) relationship() {}

// NewThreeCNFConstraint parses a " | "-joined list of literals, for example
// "~F1 | F7 | F8".
func NewThreeCNFConstraint(text string) (*ThreeCNFConstraint, error) {
	const op = "create 3cnf constraint"
	if strings.TrimSpace(text) == "" {
		return nil, constructionErrorf(op, "constraint text cannot be empty")
	}

	tokens := strings.Split(text, threeCNFSeparator)
	clauses := make([]Clause, 0, len(tokens))
	for _, token := range tokens {
		c, err := ParseClause(token)
		if err != nil {
			return nil, constructionErrorf(op, "%q: %v", text, err)
		}
		clauses = append(clauses, c)
	}
	return &ThreeCNFConstraint{clauses: clauses}, nil
}

// Type returns ThreeCNF.
func (c *ThreeCNFConstraint) Type() RelationshipType { return ThreeCNF }

// IsType reports whether t is ThreeCNF.
func (c *ThreeCNFConstraint) IsType(t RelationshipType) bool { return t == ThreeCNF }

// IsOptional is always false for 3-CNF constraints.
func (c *ThreeCNFConstraint) IsOptional() bool { return false }

// Clauses returns a copy of the clauses in storage order.
func (c *ThreeCNFConstraint) Clauses() []Clause { return slices.Clone(c.clauses) }

// PresentAtLeftSide is always false for 3-CNF constraints.
func (c *ThreeCNFConstraint) PresentAtLeftSide(Feature) bool { return false }

// PresentAtRightSide is always false for 3-CNF constraints.
func (c *ThreeCNFConstraint) PresentAtRightSide(Feature) bool { return false }

// Contains reports whether any clause literal equals the feature name.
func (c *ThreeCNFConstraint) Contains(f Feature) bool {
	return slices.ContainsFunc(c.clauses, func(cl Clause) bool { return cl.literal == f.Name() })
}

// Source returns the constraint in its " | "-joined source form.
func (c *ThreeCNFConstraint) Source() string {
	return strings.Join(c.texts(), threeCNFSeparator)
}

// ConfRule renders the constraint as 3cnf(~L1, L2, ...).
func (c *ThreeCNFConstraint) ConfRule() string {
	return string(ThreeCNF) + "(" + strings.Join(c.texts(), ", ") + ")"
}

// String returns ConfRule.
func (c *ThreeCNFConstraint) String() string { return c.ConfRule() }

func (c *ThreeCNFConstraint) relationship() {}

func (c *ThreeCNFConstraint) texts() []string {
	out := make([]string, len(c.clauses))
	for i, cl := range c.clauses {
		out[i] = cl.Text()
	}
	return out
}
