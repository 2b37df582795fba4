// SPDX-License-Identifier: MPL-2.0

package featuremodel

type (
	// featurePath is an immutable stack of the features on the current
	// exploration branch. Pushing returns a new path, so a branch never
	// observes its siblings' additions.
	featurePath struct {
		head Feature
		tail *featurePath
	}

	parentSearch struct {
		model    *FeatureModel
		rootName string
		found    []Feature
	}
)

func (p *featurePath) push(f Feature) *featurePath {
	return &featurePath{head: f, tail: p}
}

func (p *featurePath) contains(f Feature) bool {
	for n := p; n != nil; n = n.tail {
		if n.head == f {
			return true
		}
	}
	return false
}

// MandatoryParents returns the mandatory features whose selection is a
// necessary precondition for target, discovered through REQUIRES edges
// (walked right to left) and OR/ALTERNATIVE group membership. Each branch
// stops at the root feature, at a feature already on the branch, or at the
// first mandatory feature, which is recorded. The result is de-duplicated and
// ordered by first discovery.
//
// 3-CNF constraints are not traversed.
func (m *FeatureModel) MandatoryParents(target Feature) []Feature {
	s := &parentSearch{model: m}
	if root, ok := m.Root(); ok {
		s.rootName = root.Name()
	}

	start := (*featurePath)(nil).push(target)
	for _, r := range s.qualifying(target) {
		s.explore(r, target, start)
	}
	return s.found
}

// qualifying returns the relationships of f the search follows: REQUIRES
// with f on the right, and every OR/ALTERNATIVE group that touches f.
func (s *parentSearch) qualifying(f Feature) []*BasicRelationship {
	var out []*BasicRelationship
	for _, r := range s.model.RelationshipsWith(f) {
		br, ok := r.(*BasicRelationship)
		if !ok {
			continue
		}
		if (br.typ == Requires && br.PresentAtRightSide(f)) || br.typ.IsGroup() {
			out = append(out, br)
		}
	}
	return out
}

func (s *parentSearch) explore(r *BasicRelationship, f Feature, path *featurePath) {
	if f.Name() == s.rootName {
		return
	}
	switch {
	case r.typ == Requires:
		s.visit(r.left, path)
	case r.typ.IsGroup() && r.PresentAtRightSide(f):
		s.visit(r.left, path)
	case r.typ.IsGroup() && r.PresentAtLeftSide(f):
		for _, sibling := range r.right {
			s.visit(sibling, path)
		}
	}
}

func (s *parentSearch) visit(candidate Feature, path *featurePath) {
	if candidate.Name() == s.rootName || path.contains(candidate) {
		return
	}
	if s.model.IsMandatoryFeature(candidate) {
		s.record(candidate)
		return
	}
	next := path.push(candidate)
	for _, r := range s.qualifying(candidate) {
		s.explore(r, candidate, next)
	}
}

func (s *parentSearch) record(f Feature) {
	for _, seen := range s.found {
		if seen == f {
			return
		}
	}
	s.found = append(s.found, f)
}
