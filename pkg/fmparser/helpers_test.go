// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

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
	"\trequires(Drop Handlebar, Male)\n" +
	"\texcludes(Engine, Back-pedal)\n"

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
	return path
}

// mustParse reads path with the parser for format.
func mustParse(t *testing.T, format Format, path string) *featuremodel.FeatureModel {
	t.Helper()

	p, err := New(format, Options{})
	if err != nil {
		t.Fatalf("New(%s) error = %v", format, err)
	}
	fm, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", path, err)
	}
	return fm
}

// parseErr reads content written to name and returns the error.
func parseErr(t *testing.T, format Format, name, content string) error {
	t.Helper()

	p, err := New(format, Options{})
	if err != nil {
		t.Fatalf("New(%s) error = %v", format, err)
	}
	_, err = p.Parse(context.Background(), writeFile(t, name, content))
	return err
}

func fixture(name string) string { return filepath.Join("testdata", name) }
