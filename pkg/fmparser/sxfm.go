// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

const threeCNFSeparator = " | "

type (
	// sxfmParser reads SPLOT models: an XML envelope around an indented
	// feature tree and a list of CNF constraints.
	sxfmParser struct {
		base
	}

	sxfmDocument struct {
		XMLName     xml.Name     `xml:"feature_model"`
		Name        string       `xml:"name,attr"`
		Tree        *xmlTextNode `xml:"feature_tree"`
		Constraints *xmlTextNode `xml:"constraints"`
	}

	xmlTextNode struct {
		Text string `xml:",chardata"`
	}

	// literal is one signed variable of a CNF clause.
	literal struct {
		ref      string
		negative bool
	}
)

// CheckFormat reports whether path is a .sxfm/.splx file with a
// feature_model root holding feature_tree and constraints.
func (p *sxfmParser) CheckFormat(path string) bool {
	data, ok := p.sniff(path)
	return ok && p.match(data)
}

func (p *sxfmParser) match(data []byte) bool {
	_, err := decodeSXFM(data)
	return err == nil
}

func decodeSXFM(data []byte) (*sxfmDocument, error) {
	var doc sxfmDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Tree == nil || doc.Constraints == nil {
		return nil, fmt.Errorf("feature_model needs feature_tree and constraints")
	}
	return &doc, nil
}

// Parse reads a SPLOT model.
func (p *sxfmParser) Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	data, err := p.start(ctx, path, p.match)
	if err != nil {
		return nil, err
	}
	fm, err := p.build(data)
	return p.finish(path, fm, err)
}

func (p *sxfmParser) build(data []byte) (*featuremodel.FeatureModel, error) {
	doc, err := decodeSXFM(data)
	if err != nil {
		return nil, err
	}
	root, err := parseSXFMTree(doc.Tree.Text)
	if err != nil {
		return nil, fmt.Errorf("feature_tree: %w", err)
	}

	fm := p.newModel()
	if name := strings.TrimSpace(doc.Name); name != "" {
		fm.SetName(name)
	}

	nodes := breadthFirst(root)
	byID := make(map[string]*sxfmNode, len(nodes))
	for _, n := range nodes {
		if !n.isFeature() {
			continue
		}
		if err := fm.AddFeature(n.name, n.id); err != nil {
			return nil, fmt.Errorf("feature_tree line %d: %w", n.line, err)
		}
		byID[n.id] = n
	}

	for _, n := range nodes {
		if err := addSXFMRelationship(fm, n); err != nil {
			return nil, fmt.Errorf("feature_tree line %d: %w", n.line, err)
		}
	}

	if err := addSXFMConstraints(fm, doc.Constraints.Text, byID); err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}
	return fm, nil
}

func breadthFirst(root *sxfmNode) []*sxfmNode {
	queue := []*sxfmNode{root}
	for i := 0; i < len(queue); i++ {
		queue = append(queue, queue[i].children...)
	}
	return queue
}

func addSXFMRelationship(fm *featuremodel.FeatureModel, n *sxfmNode) error {
	switch n.kind {
	case nodeMandatory:
		parent, child, err := lookupPair(fm, n.parent.id, n.id)
		if err != nil {
			return err
		}
		return fm.AddRelationship(featuremodel.Mandatory, parent, []featuremodel.Feature{child})
	case nodeOptional:
		parent, child, err := lookupPair(fm, n.parent.id, n.id)
		if err != nil {
			return err
		}
		return fm.AddRelationship(featuremodel.Optional, child, []featuremodel.Feature{parent})
	case nodeGroup:
		if len(n.children) < 2 {
			return fmt.Errorf("group %q needs at least two grouped features, has %d", n.id, len(n.children))
		}
		parent, err := fm.FeatureByID(n.parent.id)
		if err != nil {
			return err
		}
		children := make([]featuremodel.Feature, 0, len(n.children))
		for _, c := range n.children {
			f, err := fm.FeatureByID(c.id)
			if err != nil {
				return err
			}
			children = append(children, f)
		}
		typ := featuremodel.Or
		if n.max == 1 {
			typ = featuremodel.Alternative
		}
		return fm.AddRelationship(typ, parent, children)
	}
	return nil
}

func lookupPair(fm *featuremodel.FeatureModel, leftID, rightID string) (featuremodel.Feature, featuremodel.Feature, error) {
	left, err := fm.FeatureByID(leftID)
	if err != nil {
		return featuremodel.Feature{}, featuremodel.Feature{}, err
	}
	right, err := fm.FeatureByID(rightID)
	if err != nil {
		return featuremodel.Feature{}, featuremodel.Feature{}, err
	}
	return left, right, nil
}

// addSXFMConstraints reads lines of the form "C1: ~a or b", where a and b are
// feature ids.
func addSXFMConstraints(fm *featuremodel.FeatureModel, text string, byID map[string]*sxfmNode) error {
	sc := bufio.NewScanner(bytes.NewBufferString(text))
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		label, expr, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("line %d: %q has no constraint label", lineNo, line)
		}

		lits, err := parseCNFClause(expr)
		if err != nil {
			return fmt.Errorf("%s: %w", strings.TrimSpace(label), err)
		}
		for _, l := range lits {
			if _, ok := byID[l.ref]; !ok {
				return fmt.Errorf("%s: unknown feature id %q", strings.TrimSpace(label), l.ref)
			}
		}

		if err := addClause(fm, lits, func(l literal) string { return byID[l.ref].name }); err != nil {
			return fmt.Errorf("%s: %w", strings.TrimSpace(label), err)
		}
	}
	return sc.Err()
}

// parseCNFClause splits "~a or b or ~c" into literals. Ids may contain
// spaces when the tree line had no explicit id.
func parseCNFClause(expr string) ([]literal, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty clause")
	}

	tokens := strings.Split(expr, " or ")
	lits := make([]literal, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		l := literal{ref: tok}
		if rest, ok := strings.CutPrefix(tok, "~"); ok {
			l = literal{ref: strings.TrimSpace(rest), negative: true}
		}
		if l.ref == "" {
			return nil, fmt.Errorf("empty literal in %q", expr)
		}
		lits = append(lits, l)
	}
	return lits, nil
}

// addClause maps a disjunction onto the model. Two literals with exactly one
// negated become requires(negated, positive); two negated literals become
// excludes; every other clause is kept as a 3-CNF constraint over feature
// names.
func addClause(fm *featuremodel.FeatureModel, lits []literal, name func(literal) string) error {
	if len(lits) == 2 {
		a, b := lits[0], lits[1]
		switch {
		case a.negative && b.negative:
			return addBinary(fm, featuremodel.Excludes, a.ref, b.ref)
		case a.negative:
			return addBinary(fm, featuremodel.Requires, a.ref, b.ref)
		case b.negative:
			return addBinary(fm, featuremodel.Requires, b.ref, a.ref)
		}
	}

	texts := make([]string, len(lits))
	for i, l := range lits {
		texts[i] = name(l)
		if l.negative {
			texts[i] = "~" + texts[i]
		}
	}
	return fm.AddThreeCNFConstraint(featuremodel.ThreeCNF, strings.Join(texts, threeCNFSeparator))
}

func addBinary(fm *featuremodel.FeatureModel, typ featuremodel.RelationshipType, leftID, rightID string) error {
	left, right, err := lookupPair(fm, leftID, rightID)
	if err != nil {
		return err
	}
	return fm.AddConstraint(typ, left, []featuremodel.Feature{right})
}
