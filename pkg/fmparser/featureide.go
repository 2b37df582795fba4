// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"context"
	"fmt"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

// featureIDEParser reads FeatureIDE models. Feature names double as ids.
type featureIDEParser struct {
	base
}

var featureIDENodes = []string{"and", "or", "alt", "feature"}

// CheckFormat reports whether path is an .xml file whose featureModel root
// holds struct and constraints elements.
func (p *featureIDEParser) CheckFormat(path string) bool {
	data, ok := p.sniff(path)
	return ok && p.match(data)
}

func (p *featureIDEParser) match(data []byte) bool {
	root, err := decodeXMLElement(data)
	if err != nil || root.name() != "featureModel" {
		return false
	}
	return len(root.find("struct")) > 0 && len(root.find("constraints")) > 0
}

// Parse reads a FeatureIDE model.
func (p *featureIDEParser) Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	data, err := p.start(ctx, path, p.match)
	if err != nil {
		return nil, err
	}
	fm, err := p.build(data)
	return p.finish(path, fm, err)
}

func (p *featureIDEParser) build(data []byte) (*featuremodel.FeatureModel, error) {
	root, err := decodeXMLElement(data)
	if err != nil {
		return nil, err
	}

	fm := p.newModel()
	if err := p.walk(fm, root.find("struct")[0]); err != nil {
		return nil, err
	}
	if fm.NumOfFeatures() == 0 {
		return fm, nil
	}

	for i, rule := range root.find("rule") {
		if err := p.addRule(fm, rule); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i+1, err)
		}
	}
	return fm, nil
}

// walk adds the children of node as features, then the relationships node
// defines, then recurses into each child.
func (p *featureIDEParser) walk(fm *featuremodel.FeatureModel, node *xmlElement) error {
	children := node.elements(featureIDENodes...)
	features, err := addChildFeatures(fm, children, func(c *xmlElement) (string, string) {
		return c.attr("name"), c.attr("name")
	})
	if err != nil {
		return err
	}

	if node.name() != "struct" {
		if err := p.addRelationships(fm, node, children, features); err != nil {
			return fmt.Errorf("feature %q: %w", node.attr("name"), err)
		}
	}

	for _, c := range children {
		if err := p.walk(fm, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *featureIDEParser) addRelationships(fm *featuremodel.FeatureModel, node *xmlElement, children []*xmlElement, features []featuremodel.Feature) error {
	parent, err := fm.FeatureByID(node.attr("name"))
	if err != nil {
		return err
	}

	switch node.name() {
	case "and":
		for i, c := range children {
			if c.attr("mandatory") == "true" {
				err = fm.AddRelationship(featuremodel.Mandatory, parent, features[i:i+1])
			} else {
				err = fm.AddRelationship(featuremodel.Optional, features[i], []featuremodel.Feature{parent})
			}
			if err != nil {
				return err
			}
		}
	case "or":
		return fm.AddRelationship(featuremodel.Or, parent, features)
	case "alt":
		return fm.AddRelationship(featuremodel.Alternative, parent, features)
	}
	return nil
}

// addRule maps one <rule>. Supported shapes: imp(var, var), not(var), var,
// and disj trees of var and not(var).
func (p *featureIDEParser) addRule(fm *featuremodel.FeatureModel, rule *xmlElement) error {
	expr, ok := rule.first("imp", "not", "disj", "var", "eq", "conj")
	if !ok {
		return fmt.Errorf("rule has no expression")
	}

	switch expr.name() {
	case "imp":
		vars := expr.elements("var")
		if len(vars) != 2 || len(expr.Children) != 2 {
			return fmt.Errorf("imp must have exactly two var operands")
		}
		return addBinary(fm, featuremodel.Requires, vars[0].text(), vars[1].text())
	case "not":
		l, err := negatedVar(expr)
		if err != nil {
			return err
		}
		return addClause(fm, []literal{l}, literalName)
	case "var":
		return addClause(fm, []literal{{ref: expr.text()}}, literalName)
	case "disj":
		var lits []literal
		if err := flattenDisj(expr, &lits); err != nil {
			return err
		}
		return addClause(fm, lits, literalName)
	default:
		return fmt.Errorf("%w: %s constraints", ErrUnsupportedFormat, expr.name())
	}
}

// literalName returns the literal's reference, which is the feature name
// for formats whose ids equal names.
func literalName(l literal) string { return l.ref }

func negatedVar(not *xmlElement) (literal, error) {
	v, ok := not.first("var")
	if !ok || len(not.Children) != 1 {
		return literal{}, fmt.Errorf("not must wrap a single var")
	}
	return literal{ref: v.text(), negative: true}, nil
}

func flattenDisj(disj *xmlElement, lits *[]literal) error {
	for i := range disj.Children {
		c := &disj.Children[i]
		switch c.name() {
		case "disj":
			if err := flattenDisj(c, lits); err != nil {
				return err
			}
		case "var":
			*lits = append(*lits, literal{ref: c.text()})
		case "not":
			l, err := negatedVar(c)
			if err != nil {
				return err
			}
			*lits = append(*lits, l)
		default:
			return fmt.Errorf("%w: %s inside disj", ErrUnsupportedFormat, c.name())
		}
	}
	return nil
}

// addChildFeatures adds each child as a feature unless its id is already
// known, returning the features in child order.
func addChildFeatures[T any](fm *featuremodel.FeatureModel, children []T, nameID func(T) (string, string)) ([]featuremodel.Feature, error) {
	features := make([]featuremodel.Feature, 0, len(children))
	for _, c := range children {
		name, id := nameID(c)
		f, err := fm.FeatureByID(id)
		if err != nil {
			if err := fm.AddFeature(name, id); err != nil {
				return nil, err
			}
			if f, err = fm.FeatureByID(id); err != nil {
				return nil, err
			}
		}
		features = append(features, f)
	}
	return features, nil
}
