// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"strings"
	"testing"
)

type (
	testRel struct {
		typ   RelationshipType
		left  string
		right []string
	}

	testModel struct {
		features      []string
		relationships []testRel
		constraints   []testRel
		cnf           []string
	}
)

// build constructs a model whose feature ids equal their names.
func (tm testModel) build(t *testing.T) *FeatureModel {
	t.Helper()

	fm := New(Options{})
	for _, name := range tm.features {
		if err := fm.AddFeature(name, name); err != nil {
			t.Fatalf("AddFeature(%q): %v", name, err)
		}
	}
	for _, r := range tm.relationships {
		left, right := resolve(t, fm, r)
		if err := fm.AddRelationship(r.typ, left, right); err != nil {
			t.Fatalf("AddRelationship(%s): %v", r.typ, err)
		}
	}
	for _, r := range tm.constraints {
		left, right := resolve(t, fm, r)
		if err := fm.AddConstraint(r.typ, left, right); err != nil {
			t.Fatalf("AddConstraint(%s): %v", r.typ, err)
		}
	}
	for _, text := range tm.cnf {
		if err := fm.AddThreeCNFConstraint(ThreeCNF, text); err != nil {
			t.Fatalf("AddThreeCNFConstraint(%q): %v", text, err)
		}
	}
	return fm
}

func resolve(t *testing.T, fm *FeatureModel, r testRel) (Feature, []Feature) {
	t.Helper()

	left := mustFeature(t, fm, r.left)
	right := make([]Feature, 0, len(r.right))
	for _, id := range r.right {
		right = append(right, mustFeature(t, fm, id))
	}
	return left, right
}

func mustFeature(t *testing.T, fm *FeatureModel, id string) Feature {
	t.Helper()

	f, err := fm.FeatureByID(id)
	if err != nil {
		t.Fatalf("FeatureByID(%q): %v", id, err)
	}
	return f
}

func names(features []Feature) string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Name()
	}
	return strings.Join(out, ",")
}

func rules(rs []Relationship) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ConfRule()
	}
	return out
}

// bambooBike is the bicycle product line used across reader and core tests.
func bambooBike() testModel {
	return testModel{
		features: []string{
			"Bamboo Bike", "Frame", "Brake", "Engine", "Drop Handlebar",
			"Female", "Male", "Step-through", "Front", "Rear", "Back-pedal",
		},
		relationships: []testRel{
			{Mandatory, "Bamboo Bike", []string{"Frame"}},
			{Mandatory, "Bamboo Bike", []string{"Brake"}},
			{Optional, "Engine", []string{"Bamboo Bike"}},
			{Optional, "Drop Handlebar", []string{"Bamboo Bike"}},
			{Alternative, "Frame", []string{"Female", "Male", "Step-through"}},
			{Or, "Brake", []string{"Front", "Rear", "Back-pedal"}},
		},
		constraints: []testRel{
			{Excludes, "Engine", []string{"Back-pedal"}},
			{Requires, "Drop Handlebar", []string{"Male"}},
		},
	}
}

const bambooBikeText = "FEATURES:\n" +
	"\tBamboo Bike\n\tFrame\n\tBrake\n\tEngine\n\tDrop Handlebar\n" +
	"\tFemale\n\tMale\n\tStep-through\n\tFront\n\tRear\n\tBack-pedal\n" +
	"RELATIONSHIPS:\n" +
	"\tmandatory(Bamboo Bike, Frame)\n" +
	"\tmandatory(Bamboo Bike, Brake)\n" +
	"\toptional(Engine, Bamboo Bike)\n" +
	"\toptional(Drop Handlebar, Bamboo Bike)\n" +
	"\talternative(Frame, Female, Male, Step-through)\n" +
	"\tor(Brake, Front, Rear, Back-pedal)\n" +
	"CONSTRAINTS:\n" +
	"\texcludes(Engine, Back-pedal)\n" +
	"\trequires(Drop Handlebar, Male)\n"

// fm100 is the nine-feature model FM_10_0.
func fm100() testModel {
	return testModel{
		features: []string{"FM_10_0", "F1", "F2", "F8", "F3", "F4", "F5", "F6", "F7"},
		relationships: []testRel{
			{Optional, "F1", []string{"FM_10_0"}},
			{Mandatory, "FM_10_0", []string{"F2"}},
			{Or, "FM_10_0", []string{"F3", "F4", "F5"}},
			{Alternative, "FM_10_0", []string{"F6", "F7"}},
			{Optional, "F8", []string{"F2"}},
		},
		constraints: []testRel{
			{Requires, "F8", []string{"F6"}},
			{Excludes, "F4", []string{"F1"}},
		},
	}
}

// buildFM100 builds FM_10_0 with its constraints in their original order,
// which interleaves the 3-CNF constraint between basic constraints.
func buildFM100(t *testing.T) *FeatureModel {
	t.Helper()

	fm := fm100().build(t)
	if err := fm.AddThreeCNFConstraint(ThreeCNF, "~F1 | F7 | F8"); err != nil {
		t.Fatalf("AddThreeCNFConstraint: %v", err)
	}
	left, right := resolve(t, fm, testRel{Requires, "F2", []string{"F6"}})
	if err := fm.AddConstraint(Requires, left, right); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	return fm
}
