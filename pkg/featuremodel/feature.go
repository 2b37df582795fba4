// SPDX-License-Identifier: MPL-2.0

package featuremodel

// Feature is an identity-bearing node of a feature model. Both the name and
// the id are unique within a model, and both are checked independently when
// detecting duplicates. The zero value is not a valid Feature.
type Feature struct {
	name string
	id   string
}

// NewFeature creates a Feature. Name and id must be non-empty.
func NewFeature(name, id string) (Feature, error) {
	if name == "" {
		return Feature{}, constructionErrorf("create feature", "feature name cannot be empty")
	}
	if id == "" {
		return Feature{}, constructionErrorf("create feature", "feature id cannot be empty (name %q)", name)
	}
	return Feature{name: name, id: id}, nil
}

// Name returns the feature's display name.
func (f Feature) Name() string { return f.name }

// ID returns the feature's identifier.
func (f Feature) ID() string { return f.id }

// IsNameDuplicate reports whether the feature carries the given name.
func (f Feature) IsNameDuplicate(name string) bool { return f.name == name }

// IsIDDuplicate reports whether the feature carries the given id.
func (f Feature) IsIDDuplicate(id string) bool { return f.id == id }

// IsDuplicate reports whether other has both the same name and the same id.
func (f Feature) IsDuplicate(other Feature) bool {
	return f.IsNameDuplicate(other.name) && f.IsIDDuplicate(other.id)
}

// String returns the feature name.
func (f Feature) String() string { return f.name }
