// SPDX-License-Identifier: MPL-2.0

// Package fmcheck runs lint rules over a built feature model.
package fmcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fmkit/fmkit/internal/dag"
	"github.com/fmkit/fmkit/pkg/featuremodel"
)

const (
	// SeverityError marks a finding that makes the model unusable as is.
	SeverityError Severity = "error"
	// SeverityWarning marks a finding worth a look.
	SeverityWarning Severity = "warning"
)

const (
	// RuleRequiresCycle flags features that require each other in a loop.
	RuleRequiresCycle Rule = "requires-cycle"
	// RuleUnreachableFeature flags features outside the root's tree.
	RuleUnreachableFeature Rule = "unreachable-feature"
	// RuleRequireExcludeConflict flags pairs that both require and exclude
	// each other.
	RuleRequireExcludeConflict Rule = "require-exclude-conflict"
	// RuleUnknownLiteral flags 3-CNF literals that name no feature.
	RuleUnknownLiteral Rule = "unknown-literal"
)

type (
	// Severity grades a finding.
	Severity string

	// Rule names a check.
	Rule string

	// Finding is one rule violation.
	Finding struct {
		Rule     Rule
		Severity Severity
		Message  string
		Features []string
	}

	// Report collects the findings for one model.
	Report struct {
		Model    string
		Findings []Finding
	}
)

// Rules returns every rule in the order Check runs them.
func Rules() []Rule {
	return []Rule{RuleRequiresCycle, RuleUnreachableFeature, RuleRequireExcludeConflict, RuleUnknownLiteral}
}

// HasErrors reports whether any finding has SeverityError.
func (r Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Count returns the number of findings with the given severity.
func (r Report) Count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// String renders a finding as "severity [rule] message".
func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s", f.Severity, f.Rule, f.Message)
}

// Check runs every rule over fm.
func Check(fm *featuremodel.FeatureModel) Report {
	r := Report{Model: fm.Name()}
	r.Findings = append(r.Findings, requiresCycles(fm)...)
	r.Findings = append(r.Findings, unreachableFeatures(fm)...)
	r.Findings = append(r.Findings, requireExcludeConflicts(fm)...)
	r.Findings = append(r.Findings, unknownLiterals(fm)...)
	return r
}

func requiresCycles(fm *featuremodel.FeatureModel) []Finding {
	g := dag.New()
	for _, c := range fm.Constraints() {
		if br, ok := c.(*featuremodel.BasicRelationship); ok && br.IsType(featuremodel.Requires) {
			for _, right := range br.Right() {
				g.AddEdge(br.Left().Name(), right.Name())
			}
		}
	}

	_, err := g.TopologicalSort()
	var cycle *dag.CycleError
	if !errors.As(err, &cycle) {
		return nil
	}
	return []Finding{{
		Rule:     RuleRequiresCycle,
		Severity: SeverityWarning,
		Message:  "features require each other in a cycle: " + strings.Join(cycle.Cycle, ", "),
		Features: cycle.Cycle,
	}}
}

// unreachableFeatures walks the tree from the root. Optional relationships
// store the child on the left, so their edge is reversed.
func unreachableFeatures(fm *featuremodel.FeatureModel) []Finding {
	root, ok := fm.Root()
	if !ok {
		return nil
	}

	g := dag.New()
	for _, f := range fm.Features() {
		g.AddNode(f.Name())
	}
	for _, r := range fm.Relationships() {
		br, ok := r.(*featuremodel.BasicRelationship)
		if !ok {
			continue
		}
		for _, right := range br.Right() {
			if br.IsType(featuremodel.Optional) {
				g.AddEdge(right.Name(), br.Left().Name())
			} else {
				g.AddEdge(br.Left().Name(), right.Name())
			}
		}
	}

	reached := make(map[string]bool)
	for _, name := range g.Reachable(root.Name()) {
		reached[name] = true
	}

	var out []Finding
	for _, f := range fm.Features() {
		if !reached[f.Name()] {
			out = append(out, Finding{
				Rule:     RuleUnreachableFeature,
				Severity: SeverityError,
				Message:  fmt.Sprintf("feature %q is not reachable from root %q", f.Name(), root.Name()),
				Features: []string{f.Name()},
			})
		}
	}
	return out
}

func requireExcludeConflicts(fm *featuremodel.FeatureModel) []Finding {
	type pair struct{ a, b string }

	requires := make(map[pair]bool)
	var excludes []pair
	for _, c := range fm.Constraints() {
		br, ok := c.(*featuremodel.BasicRelationship)
		if !ok {
			continue
		}
		for _, right := range br.Right() {
			p := pair{br.Left().Name(), right.Name()}
			switch br.Type() {
			case featuremodel.Requires:
				requires[p] = true
			case featuremodel.Excludes:
				excludes = append(excludes, p)
			}
		}
	}

	var out []Finding
	for _, e := range excludes {
		var from, to string
		switch {
		case requires[e]:
			from, to = e.a, e.b
		case requires[pair{e.b, e.a}]:
			from, to = e.b, e.a
		default:
			continue
		}
		out = append(out, Finding{
			Rule:     RuleRequireExcludeConflict,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%q both requires and excludes %q, so it can never be selected", from, to),
			Features: []string{from, to},
		})
	}
	return out
}

func unknownLiterals(fm *featuremodel.FeatureModel) []Finding {
	var out []Finding
	for _, c := range fm.Constraints() {
		cnf, ok := c.(*featuremodel.ThreeCNFConstraint)
		if !ok {
			continue
		}
		for _, cl := range cnf.Clauses() {
			if _, err := fm.FeatureByName(cl.Literal()); err == nil {
				continue
			}
			out = append(out, Finding{
				Rule:     RuleUnknownLiteral,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s names no feature: %q", cnf.ConfRule(), cl.Literal()),
				Features: []string{cl.Literal()},
			})
		}
	}
	return out
}
