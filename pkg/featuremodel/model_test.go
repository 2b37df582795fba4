// SPDX-License-Identifier: MPL-2.0

package featuremodel

import (
	"errors"
	"testing"
)

func TestAddFeature(t *testing.T) {
	t.Parallel()

	fm := New(Options{})
	if err := fm.AddFeature("Bamboo Bike", "_r"); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}

	tests := []struct {
		name  string
		fname string
		id    string
	}{
		{name: "empty name", fname: "", id: "_r_1"},
		{name: "empty id", fname: "Frame", id: ""},
		{name: "duplicate name", fname: "Bamboo Bike", id: "_r_1"},
		{name: "duplicate id", fname: "Frame", id: "_r"},
	}
	for _, tt := range tests {
		err := fm.AddFeature(tt.fname, tt.id)
		if err == nil {
			t.Errorf("%s: AddFeature(%q, %q) should fail", tt.name, tt.fname, tt.id)
			continue
		}
		var ce *ConstructionError
		if !errors.As(err, &ce) {
			t.Errorf("%s: error should be *ConstructionError, got %T", tt.name, err)
		}
	}

	if fm.NumOfFeatures() != 1 {
		t.Errorf("failed calls must not add features, got %d", fm.NumOfFeatures())
	}
}

func TestFeatureModel_Name(t *testing.T) {
	t.Parallel()

	fm := New(Options{})
	if fm.Name() != "" {
		t.Errorf("empty model name = %q, want empty", fm.Name())
	}
	_ = fm.AddFeature("FM_10_0", "root")
	_ = fm.AddFeature("F1", "f1")
	if fm.Name() != "FM_10_0" {
		t.Errorf("Name() = %q, want root feature name", fm.Name())
	}
	fm.SetName("bike.sxfm")
	if fm.Name() != "bike.sxfm" {
		t.Errorf("Name() after SetName = %q", fm.Name())
	}

	named := New(Options{Name: "Bikes"})
	_ = named.AddFeature("Bike", "bike")
	if named.Name() != "Bikes" {
		t.Errorf("Options.Name not honored, got %q", named.Name())
	}
}

func TestFeatureModel_Consistency(t *testing.T) {
	t.Parallel()

	fm := New(Options{})
	if fm.Consistency() {
		t.Error("consistency defaults to false")
	}
	fm.SetConsistency(true)
	if !fm.Consistency() {
		t.Error("SetConsistency(true) not recorded")
	}
}

func TestAddRelationship_Validation(t *testing.T) {
	t.Parallel()

	fm := fm100().build(t)
	root := mustFeature(t, fm, "FM_10_0")
	f1 := mustFeature(t, fm, "F1")
	f2 := mustFeature(t, fm, "F2")
	stranger, _ := NewFeature("F99", "F99")
	impostor, _ := NewFeature("Other", "F1")

	relsBefore, consBefore := fm.NumOfRelationships(), fm.NumOfConstraints()

	tests := []struct {
		name string
		call func() error
	}{
		{"constraint type in relationships", func() error { return fm.AddRelationship(Requires, f1, []Feature{f2}) }},
		{"3cnf type in relationships", func() error { return fm.AddRelationship(ThreeCNF, f1, []Feature{f2}) }},
		{"unknown type", func() error { return fm.AddRelationship("xor", root, []Feature{f1, f2}) }},
		{"arity mismatch", func() error { return fm.AddRelationship(Mandatory, root, []Feature{f1, f2}) }},
		{"left not in model", func() error { return fm.AddRelationship(Mandatory, stranger, []Feature{f1}) }},
		{"right not in model", func() error { return fm.AddRelationship(Or, root, []Feature{f1, stranger}) }},
		{"id collides with different name", func() error { return fm.AddRelationship(Mandatory, root, []Feature{impostor}) }},
		{"structural type in constraints", func() error { return fm.AddConstraint(Mandatory, root, []Feature{f1}) }},
		{"3cnf type in basic constraints", func() error { return fm.AddConstraint(ThreeCNF, root, []Feature{f1}) }},
		{"constraint arity", func() error { return fm.AddConstraint(Excludes, root, []Feature{f1, f2}) }},
		{"basic type for 3cnf", func() error { return fm.AddThreeCNFConstraint(Requires, "F1 | F2") }},
		{"empty 3cnf", func() error { return fm.AddThreeCNFConstraint(ThreeCNF, "") }},
	}

	for _, tt := range tests {
		err := tt.call()
		if !errors.Is(err, ErrConstruction) {
			t.Errorf("%s: error = %v, want ErrConstruction", tt.name, err)
		}
	}

	if fm.NumOfRelationships() != relsBefore || fm.NumOfConstraints() != consBefore {
		t.Error("failed construction calls must leave the model unchanged")
	}
}
