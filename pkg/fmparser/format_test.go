// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"errors"
	"slices"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatNone, false},
		{"auto", FormatNone, false},
		{"AUTO", FormatNone, false},
		{"sxfm", FormatSXFM, false},
		{"splot", FormatSXFM, false},
		{"FeatureIDE", FormatFeatureIDE, false},
		{"xmi", FormatXMI, false},
		{"glencoe", FormatGlencoe, false},
		{"descriptive", FormatDescriptive, false},
		{"fm4conf", FormatDescriptive, false},
		{" cue ", FormatCUE, false},
		{"toml", FormatTOML, false},
		{"yml", FormatYAML, false},
		{"JSON", FormatJSON, false},
		{"dimacs", FormatNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ParseFormat(%q) error should wrap ErrInvalidFormat", tt.in)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	if got := FormatNone.String(); got != "auto" {
		t.Errorf("FormatNone.String() = %q, want %q", got, "auto")
	}
	for _, f := range Formats() {
		back, err := ParseFormat(f.String())
		if err != nil || back != f {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", f.String(), back, err, f)
		}
	}
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	all := Extensions()
	for _, ext := range []string{".sxfm", ".splx", ".xml", ".xmi", ".json", ".fm4conf", ".cue", ".toml", ".yaml", ".yml"} {
		if !slices.Contains(all, ext) {
			t.Errorf("Extensions() missing %s", ext)
		}
	}

	ext := FormatSXFM.Extensions()
	ext[0] = ".mutated"
	if FormatSXFM.Extensions()[0] != ".sxfm" {
		t.Error("Format.Extensions() exposed internal state")
	}
}
