// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"github.com/charmbracelet/log"
)

type (
	// Options configures a new FeatureModel.
	Options struct {
		// Name overrides the display name. When empty, the name of the root
		// feature (the first feature added) is used.
		Name string
		// Logger receives debug records for construction calls. A nil logger
		// disables logging.
		Logger *log.Logger
	}

	// FeatureModel is the canonical in-memory feature model. Features,
	// relationships and constraints keep their insertion order, which is part
	// of the observable contract of every query and of String.
	//
	// A FeatureModel has a single writer while it is being built and may be
	// read concurrently afterwards. It performs no locking of its own.
	FeatureModel struct {
		name          string
		features      []Feature
		byID          map[string]int
		byName        map[string]int
		relationships []Relationship
		constraints   []Relationship
		consistency   bool
		logger        *log.Logger
	}
)

// New creates an empty FeatureModel.
func New(opts Options) *FeatureModel {
	return &FeatureModel{
		name:   opts.Name,
		byID:   make(map[string]int),
		byName: make(map[string]int),
		logger: opts.Logger,
	}
}

// Name returns the model's display name: the name set through Options or
// SetName, otherwise the root feature's name, otherwise "".
func (m *FeatureModel) Name() string {
	if m.name != "" {
		return m.name
	}
	if root, ok := m.Root(); ok {
		return root.Name()
	}
	return ""
}

// SetName overrides the display name.
func (m *FeatureModel) SetName(name string) { m.name = name }

// Root returns the first feature ever added.
func (m *FeatureModel) Root() (Feature, bool) {
	if len(m.features) == 0 {
		return Feature{}, false
	}
	return m.features[0], true
}

// Consistency returns the caller-maintained consistency flag. The model never
// computes it.
func (m *FeatureModel) Consistency() bool { return m.consistency }

// SetConsistency records the result of an external consistency check.
func (m *FeatureModel) SetConsistency(consistent bool) { m.consistency = consistent }

// AddFeature appends a new feature. It fails if name or id is empty or
// already used by another feature of the model.
func (m *FeatureModel) AddFeature(name, id string) error {
	const op = "add feature"
	f, err := NewFeature(name, id)
	if err != nil {
		return err
	}
	if _, dup := m.byName[name]; dup {
		return constructionErrorf(op, "feature name %q already exists", name)
	}
	if _, dup := m.byID[id]; dup {
		return constructionErrorf(op, "feature id %q already exists", id)
	}

	m.byName[name] = len(m.features)
	m.byID[id] = len(m.features)
	m.features = append(m.features, f)

	if m.logger != nil {
		m.logger.Debug("added feature", "name", name, "id", id)
	}
	return nil
}

// AddRelationship appends a structural relationship (MANDATORY, OPTIONAL, OR
// or ALTERNATIVE). Left and right must be features of this model, typically
// resolved through FeatureByID.
func (m *FeatureModel) AddRelationship(typ RelationshipType, left Feature, right []Feature) error {
	const op = "add relationship"
	if err := typ.Validate(); err != nil {
		return constructionErrorf(op, "%v", err)
	}
	if !typ.IsStructural() {
		return constructionErrorf(op, "%s is a constraint type, use AddConstraint", typ)
	}
	r, err := m.newMemberRelationship(op, typ, left, right)
	if err != nil {
		return err
	}
	m.relationships = append(m.relationships, r)

	if m.logger != nil {
		m.logger.Debug("added relationship", "rule", r.ConfRule())
	}
	return nil
}

// AddConstraint appends a REQUIRES or EXCLUDES cross-tree constraint.
func (m *FeatureModel) AddConstraint(typ RelationshipType, left Feature, right []Feature) error {
	const op = "add constraint"
	if typ != Requires && typ != Excludes {
		return constructionErrorf(op, "type %q is not requires or excludes", typ)
	}
	r, err := m.newMemberRelationship(op, typ, left, right)
	if err != nil {
		return err
	}
	m.constraints = append(m.constraints, r)

	if m.logger != nil {
		m.logger.Debug("added constraint", "rule", r.ConfRule())
	}
	return nil
}

// AddThreeCNFConstraint appends a 3-CNF constraint parsed from a " | "-joined
// literal list such as "~F1 | F7 | F8". Typ must be ThreeCNF.
func (m *FeatureModel) AddThreeCNFConstraint(typ RelationshipType, text string) error {
	const op = "add constraint"
	if typ != ThreeCNF {
		return constructionErrorf(op, "type %q is not %s", typ, ThreeCNF)
	}
	c, err := NewThreeCNFConstraint(text)
	if err != nil {
		return err
	}
	m.constraints = append(m.constraints, c)

	if m.logger != nil {
		m.logger.Debug("added constraint", "rule", c.ConfRule())
	}
	return nil
}

// newMemberRelationship builds a basic relationship after checking that every
// operand is a feature of this model.
func (m *FeatureModel) newMemberRelationship(op string, typ RelationshipType, left Feature, right []Feature) (*BasicRelationship, error) {
	if !m.has(left) {
		return nil, constructionErrorf(op, "left-side feature %q (id %q) is not in the model", left.Name(), left.ID())
	}
	for _, f := range right {
		if !m.has(f) {
			return nil, constructionErrorf(op, "right-side feature %q (id %q) is not in the model", f.Name(), f.ID())
		}
	}
	return NewBasicRelationship(typ, left, right)
}

func (m *FeatureModel) has(f Feature) bool {
	i, ok := m.byID[f.ID()]
	return ok && m.features[i] == f
}
