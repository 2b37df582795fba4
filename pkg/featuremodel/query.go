// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"slices"
	"strconv"
)

// Feature returns the feature at the 0-based insertion index.
func (m *FeatureModel) Feature(index int) (Feature, error) {
	if index < 0 || index >= len(m.features) {
		return Feature{}, &LookupError{
			Key:    strconv.Itoa(index),
			Reason: "index out of bounds [0, " + strconv.Itoa(len(m.features)) + ")",
		}
	}
	return m.features[index], nil
}

// FeatureByID returns the feature with the given id.
func (m *FeatureModel) FeatureByID(id string) (Feature, error) {
	i, ok := m.byID[id]
	if !ok {
		return Feature{}, &LookupError{Key: id, Reason: "no feature with this id"}
	}
	return m.features[i], nil
}

// FeatureByName returns the feature with the given name.
func (m *FeatureModel) FeatureByName(name string) (Feature, error) {
	i, ok := m.byName[name]
	if !ok {
		return Feature{}, &LookupError{Key: name, Reason: "no feature with this name"}
	}
	return m.features[i], nil
}

// Features returns the features in insertion order.
func (m *FeatureModel) Features() []Feature { return slices.Clone(m.features) }

// Relationships returns the structural relationships in insertion order.
func (m *FeatureModel) Relationships() []Relationship { return slices.Clone(m.relationships) }

// Constraints returns the cross-tree constraints in insertion order.
func (m *FeatureModel) Constraints() []Relationship { return slices.Clone(m.constraints) }

// NumOfFeatures returns the number of features.
func (m *FeatureModel) NumOfFeatures() int { return len(m.features) }

// NumOfRelationships returns the number of structural relationships.
func (m *FeatureModel) NumOfRelationships() int { return len(m.relationships) }

// NumOfConstraints returns the number of cross-tree constraints.
func (m *FeatureModel) NumOfConstraints() int { return len(m.constraints) }

// NumOfRelationshipsOfType counts relationships of the given type. REQUIRES
// and EXCLUDES are counted among constraints; every other type, 3-CNF
// included, is counted among structural relationships.
func (m *FeatureModel) NumOfRelationshipsOfType(typ RelationshipType) int {
	source := m.relationships
	if typ.isConstraint() {
		source = m.constraints
	}
	n := 0
	for _, r := range source {
		if r.IsType(typ) {
			n++
		}
	}
	return n
}

// IsMandatoryFeature reports whether some MANDATORY relationship has f on its
// right side.
func (m *FeatureModel) IsMandatoryFeature(f Feature) bool {
	for _, r := range m.relationships {
		if r.IsType(Mandatory) && r.PresentAtRightSide(f) {
			return true
		}
	}
	return false
}

// IsOptionalFeature reports whether f is the child of an OPTIONAL relationship
// (stored on its left side) or a member of an OR/ALTERNATIVE group.
func (m *FeatureModel) IsOptionalFeature(f Feature) bool {
	for _, r := range m.relationships {
		switch {
		case r.IsType(Optional) && r.PresentAtLeftSide(f):
			return true
		case (r.IsType(Or) || r.IsType(Alternative)) && r.PresentAtRightSide(f):
			return true
		}
	}
	return false
}

// RightSideOfRelationships returns the features reachable from f in one
// structural step. An OPTIONAL relationship is stored as optional(child,
// parent); when f is its right operand the left operand is emitted. For every
// other type, when f is the left operand each right operand is emitted.
// Emitted features are re-resolved by id through the model.
func (m *FeatureModel) RightSideOfRelationships(f Feature) ([]Feature, error) {
	var out []Feature
	for _, r := range m.relationships {
		br, ok := r.(*BasicRelationship)
		if !ok {
			continue
		}
		if br.typ == Optional {
			if !br.PresentAtRightSide(f) {
				continue
			}
			resolved, err := m.FeatureByID(br.left.ID())
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
			continue
		}
		if !br.PresentAtLeftSide(f) {
			continue
		}
		for _, right := range br.right {
			resolved, err := m.FeatureByID(right.ID())
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
	}
	return out, nil
}

// RelationshipsWith returns the structural relationships that have f on
// either side, followed by the constraints that have f on either side or, for
// 3-CNF constraints, name f in a clause. Both groups keep storage order.
func (m *FeatureModel) RelationshipsWith(f Feature) []Relationship {
	var out []Relationship
	for _, r := range m.relationships {
		if touches(r, f) {
			out = append(out, r)
		}
	}
	for _, c := range m.constraints {
		if touches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

func touches(r Relationship, f Feature) bool {
	switch r := r.(type) {
	case *BasicRelationship:
		return r.PresentAtLeftSide(f) || r.PresentAtRightSide(f)
	case *ThreeCNFConstraint:
		return r.Contains(f)
	default:
		return false
	}
}
