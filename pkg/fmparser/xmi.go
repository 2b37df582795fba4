// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"context"
	"fmt"
	"strings"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

const (
	xmiFeatureType = "feature:Feature"
	xmiGroupType   = "feature:FeatureGroup"
	xmiImpliesType = "ImpliesTerm"
	xmiExcludeType = "ExcludesTerm"
)

// xmiParser reads v.control XMI models. Feature groups are modeled as
// features of their own, parents of the grouped features.
type xmiParser struct {
	base
}

var xmiNodes = []string{"rootFeature", "children"}

// CheckFormat reports whether path is an .xmi file whose XMI root holds
// models and constraints elements.
func (p *xmiParser) CheckFormat(path string) bool {
	data, ok := p.sniff(path)
	return ok && p.match(data)
}

func (p *xmiParser) match(data []byte) bool {
	root, err := decodeXMLElement(data)
	if err != nil || root.name() != "XMI" {
		return false
	}
	return len(root.find("models")) > 0 && len(root.find("constraints")) > 0
}

// Parse reads a v.control model.
func (p *xmiParser) Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	data, err := p.start(ctx, path, p.match)
	if err != nil {
		return nil, err
	}
	fm, err := p.build(data)
	return p.finish(path, fm, err)
}

func (p *xmiParser) build(data []byte) (*featuremodel.FeatureModel, error) {
	root, err := decodeXMLElement(data)
	if err != nil {
		return nil, err
	}

	fm := p.newModel()
	if err := p.walk(fm, root.find("models")[0], true); err != nil {
		return nil, err
	}
	if fm.NumOfFeatures() == 0 {
		return fm, nil
	}

	for i, c := range root.find("constraints") {
		if err := p.addConstraint(fm, c); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i+1, err)
		}
	}
	return fm, nil
}

func (p *xmiParser) walk(fm *featuremodel.FeatureModel, node *xmlElement, isModels bool) error {
	children := node.elements(xmiNodes...)
	features, err := addChildFeatures(fm, children, func(c *xmlElement) (string, string) {
		id := c.attr("id")
		if name := c.attr("name"); name != "" {
			return name, id
		}
		return id, id
	})
	if err != nil {
		return err
	}

	if !isModels {
		if err := p.addRelationships(fm, node, children, features); err != nil {
			return fmt.Errorf("feature %q: %w", node.attr("id"), err)
		}
	}

	for _, c := range children {
		if err := p.walk(fm, c, false); err != nil {
			return err
		}
	}
	return nil
}

func (p *xmiParser) addRelationships(fm *featuremodel.FeatureModel, node *xmlElement, children []*xmlElement, features []featuremodel.Feature) error {
	parent, err := fm.FeatureByID(node.attr("id"))
	if err != nil {
		return err
	}

	typ := node.attr("type")
	switch {
	case strings.HasSuffix(typ, xmiGroupType):
		rel := featuremodel.Or
		if node.attr("max") == "" {
			rel = featuremodel.Alternative
		}
		return fm.AddRelationship(rel, parent, features)
	case strings.HasSuffix(typ, xmiFeatureType):
		for i, c := range children {
			if c.attr("optional") == "false" {
				err = fm.AddRelationship(featuremodel.Mandatory, parent, features[i:i+1])
			} else {
				err = fm.AddRelationship(featuremodel.Optional, features[i], []featuremodel.Feature{parent})
			}
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unexpected node type %q", typ)
	}
}

func (p *xmiParser) addConstraint(fm *featuremodel.FeatureModel, c *xmlElement) error {
	term, ok := c.first("rootTerm")
	if !ok {
		return fmt.Errorf("constraint has no rootTerm")
	}
	operands := term.elements("operands")
	if len(operands) != 2 {
		return fmt.Errorf("term needs two operands, has %d", len(operands))
	}
	left, right := operands[0].attr("element"), operands[1].attr("element")

	typ := term.attr("type")
	switch {
	case strings.HasSuffix(typ, xmiImpliesType):
		return addBinary(fm, featuremodel.Requires, left, right)
	case strings.HasSuffix(typ, xmiExcludeType):
		return addBinary(fm, featuremodel.Excludes, left, right)
	default:
		return fmt.Errorf("unexpected constraint type %q", typ)
	}
}
