// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

const (
	sectionNone section = iota
	sectionFeatures
	sectionRelationships
	sectionConstraints
)

var sectionHeaders = map[string]section{
	"FEATURES:":      sectionFeatures,
	"RELATIONSHIPS:": sectionRelationships,
	"CONSTRAINTS:":   sectionConstraints,
}

type (
	// descriptiveParser reads the canonical text rendering of a model. Each
	// feature's id is its name. Files in the FM4Conf grammar are not read.
	descriptiveParser struct {
		base
	}

	section int
)

// CheckFormat reports whether path is an .fm4conf file that opens with a
// FEATURES: section.
func (p *descriptiveParser) CheckFormat(path string) bool {
	data, ok := p.sniff(path)
	return ok && p.match(data)
}

func (p *descriptiveParser) match(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line == "FEATURES:"
	}
	return false
}

// Parse reads a descriptive model.
func (p *descriptiveParser) Parse(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	data, err := p.start(ctx, path, p.match)
	if err != nil {
		return nil, err
	}
	fm, err := p.build(data)
	return p.finish(path, fm, err)
}

func (p *descriptiveParser) build(data []byte) (*featuremodel.FeatureModel, error) {
	fm := p.newModel()
	current := sectionNone

	sc := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if next, ok := sectionHeaders[line]; ok {
			if next <= current {
				return nil, fmt.Errorf("line %d: section %s out of order", lineNo, line)
			}
			current = next
			continue
		}

		var err error
		switch current {
		case sectionFeatures:
			err = fm.AddFeature(line, line)
		case sectionRelationships, sectionConstraints:
			err = addRule(fm, line, current)
		default:
			err = fmt.Errorf("entry outside of a section")
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fm, nil
}

// addRule parses "type(A, B, ...)" and adds it to the section it appears in.
func addRule(fm *featuremodel.FeatureModel, line string, in section) error {
	open := strings.Index(line, "(")
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return fmt.Errorf("%q is not of the form type(args)", line)
	}

	typ := featuremodel.RelationshipType(strings.TrimSpace(line[:open]))
	if err := typ.Validate(); err != nil {
		return err
	}
	if typ.IsStructural() != (in == sectionRelationships) {
		return fmt.Errorf("%s does not belong in this section", typ)
	}

	args := strings.Split(line[open+1:len(line)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	if typ == featuremodel.ThreeCNF {
		return fm.AddThreeCNFConstraint(typ, strings.Join(args, threeCNFSeparator))
	}

	features := make([]featuremodel.Feature, 0, len(args))
	for _, name := range args {
		f, err := fm.FeatureByName(name)
		if err != nil {
			return err
		}
		features = append(features, f)
	}
	if len(features) < 2 {
		return fmt.Errorf("%s needs a left side and at least one right-side feature", typ)
	}

	if in == sectionRelationships {
		return fm.AddRelationship(typ, features[0], features[1:])
	}
	return fm.AddConstraint(typ, features[0], features[1:])
}
