// SPDX-License-Identifier: MPL-2.0

package featuremodel

import "strings"

// negationPrefix marks a negative literal in 3-CNF source text.
const negationPrefix = "~"

// Clause is a signed literal inside a 3-CNF constraint. Clauses compare by
// value, so == is equality on (literal, polarity).
type Clause struct {
	literal  string
	positive bool
}

// ParseClause parses a token of the form "X" or "~X". Surrounding whitespace
// is ignored; an empty literal is rejected.
func ParseClause(token string) (Clause, error) {
	token = strings.TrimSpace(token)
	positive := true
	if strings.HasPrefix(token, negationPrefix) {
		positive = false
		token = strings.TrimSpace(strings.TrimPrefix(token, negationPrefix))
	}
	if token == "" {
		return Clause{}, constructionErrorf("parse clause", "clause literal cannot be empty")
	}
	return Clause{literal: token, positive: positive}, nil
}

// Literal returns the feature name the clause refers to.
func (c Clause) Literal() string { return c.literal }

// IsPositive reports the clause polarity.
func (c Clause) IsPositive() bool { return c.positive }

// Text returns the clause in source form: "X" or "~X".
func (c Clause) Text() string {
	if c.positive {
		return c.literal
	}
	return negationPrefix + c.literal
}

// String returns the diagnostic form "X = true" or "X = false".
func (c Clause) String() string {
	if c.positive {
		return c.literal + " = true"
	}
	return c.literal + " = false"
}
