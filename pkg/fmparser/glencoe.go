// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

type (
	// glencoeParser reads Glencoe JSON models.
	glencoeParser struct {
		base
	}

	glencoeDocument struct {
		ID          string                    `json:"id"`
		Features    map[string]glencoeFeature `json:"features"`
		Tree        *glencoeNode              `json:"tree"`
		Constraints json.RawMessage           `json:"constraints"`
	}

	glencoeFeature struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Optional *bool  `json:"optional"`
	}

	glencoeNode struct {
		ID       string        `json:"id"`
		Children []glencoeNode `json:"children"`
	}

	glencoeConstraint struct {
		Type     string           `json:"type"`
		Operands []glencoeOperand `json:"operands"`
	}

	glencoeOperand struct {
		Type     string   `json:"type"`
		Operands []string `json:"operands"`
	}
)

// CheckFormat reports whether path is a .json file with features, tree and
// constraints members.
func (p *glencoeParser) CheckFormat(path string) bool {
	data, ok := p.sniff(path)
	return ok && p.match(data)
}

func (p *glencoeParser) match(data []byte) bool {
	_, err := decodeGlencoe(data)
	return err == nil
}

func decodeGlencoe(data []byte) (*glencoeDocument, error) {
	var doc glencoeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Features == nil || doc.Tree == nil || len(doc.Constraints) == 0 || string(doc.Constraints) == "null" {
		return nil, fmt.Errorf("glencoe model needs features, tree and constraints")
	}
	return &doc, nil
}

// Parse reads a Glencoe model.
func (p *glencoeParser) Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	data, err := p.start(ctx, path, p.match)
	if err != nil {
		return nil, err
	}
	fm, err := p.build(data)
	return p.finish(path, fm, err)
}

func (p *glencoeParser) build(data []byte) (*featuremodel.FeatureModel, error) {
	doc, err := decodeGlencoe(data)
	if err != nil {
		return nil, err
	}

	fm := p.newModel()
	root, ok := doc.Features[doc.Tree.ID]
	if !ok {
		return nil, fmt.Errorf("root feature %q is not declared in features", doc.Tree.ID)
	}
	if err := fm.AddFeature(root.Name, doc.Tree.ID); err != nil {
		return nil, err
	}
	if err := p.walk(fm, doc, doc.Tree); err != nil {
		return nil, err
	}

	constraints, err := orderedMembers(doc.Constraints)
	if err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}
	for _, m := range constraints {
		var c glencoeConstraint
		if err := json.Unmarshal(m.value, &c); err != nil {
			return nil, fmt.Errorf("constraint %q: %w", m.key, err)
		}
		if err := addGlencoeConstraint(fm, c); err != nil {
			return nil, fmt.Errorf("constraint %q: %w", m.key, err)
		}
	}
	return fm, nil
}

func (p *glencoeParser) walk(fm *featuremodel.FeatureModel, doc *glencoeDocument, node *glencoeNode) error {
	if len(node.Children) == 0 {
		return nil
	}

	for _, c := range node.Children {
		if _, ok := doc.Features[c.ID]; !ok {
			return fmt.Errorf("feature %q is not declared in features", c.ID)
		}
	}
	features, err := addChildFeatures(fm, node.Children, func(c glencoeNode) (string, string) {
		return doc.Features[c.ID].Name, c.ID
	})
	if err != nil {
		return err
	}

	parent, err := fm.FeatureByID(node.ID)
	if err != nil {
		return err
	}
	switch typ := doc.Features[node.ID].Type; typ {
	case "FEATURE":
		for i, c := range node.Children {
			optional := doc.Features[c.ID].Optional
			switch {
			case optional == nil:
				continue
			case *optional:
				err = fm.AddRelationship(featuremodel.Optional, features[i], []featuremodel.Feature{parent})
			default:
				err = fm.AddRelationship(featuremodel.Mandatory, parent, features[i:i+1])
			}
			if err != nil {
				return fmt.Errorf("feature %q: %w", node.ID, err)
			}
		}
	case "XOR":
		if err := fm.AddRelationship(featuremodel.Alternative, parent, features); err != nil {
			return fmt.Errorf("feature %q: %w", node.ID, err)
		}
	case "OR":
		if err := fm.AddRelationship(featuremodel.Or, parent, features); err != nil {
			return fmt.Errorf("feature %q: %w", node.ID, err)
		}
	default:
		return fmt.Errorf("feature %q: unexpected relationship type %q", node.ID, typ)
	}

	for i := range node.Children {
		if err := p.walk(fm, doc, &node.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func addGlencoeConstraint(fm *featuremodel.FeatureModel, c glencoeConstraint) error {
	if len(c.Operands) != 2 || len(c.Operands[0].Operands) == 0 || len(c.Operands[1].Operands) == 0 {
		return fmt.Errorf("%s needs two feature operands", c.Type)
	}
	left, right := c.Operands[0].Operands[0], c.Operands[1].Operands[0]

	switch c.Type {
	case "ImpliesTerm":
		return addBinary(fm, featuremodel.Requires, left, right)
	case "ExcludesTerm":
		return addBinary(fm, featuremodel.Excludes, left, right)
	default:
		return fmt.Errorf("unexpected constraint type %q", c.Type)
	}
}

type member struct {
	key   string
	value json.RawMessage
}

// orderedMembers returns the members of a JSON object in source order.
func orderedMembers(raw json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, member{key: key, value: value})
	}
	return out, nil
}
