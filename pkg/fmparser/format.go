// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// FormatNone means "detect from the file".
	FormatNone Format = ""
	// FormatSXFM is the SPLOT XML feature model format.
	FormatSXFM Format = "sxfm"
	// FormatFeatureIDE is the FeatureIDE XML format.
	FormatFeatureIDE Format = "featureide"
	// FormatXMI is the v.control XMI format.
	FormatXMI Format = "xmi"
	// FormatGlencoe is the Glencoe JSON format.
	FormatGlencoe Format = "glencoe"
	// FormatDescriptive is the canonical text rendering of a model.
	FormatDescriptive Format = "descriptive"
	// FormatCUE is an fmkit document written in CUE.
	FormatCUE Format = "cue"
	// FormatTOML is an fmkit document written in TOML.
	FormatTOML Format = "toml"
	// FormatYAML is an fmkit document written in YAML.
	FormatYAML Format = "yaml"
	// FormatJSON is an fmkit document written in JSON. It shares the .json
	// extension with Glencoe and is told apart by content.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid feature model format")

type (
	// Format names a feature model file format.
	Format string

	// InvalidFormatError is returned by ParseFormat for unknown names.
	InvalidFormatError struct {
		Value string
	}
)

// extensions lists the file extensions each format claims, lower-cased.
var extensions = map[Format][]string{
	FormatSXFM:        {".sxfm", ".splx"},
	FormatFeatureIDE:  {".xml"},
	FormatXMI:         {".xmi"},
	FormatGlencoe:     {".json"},
	FormatDescriptive: {".fm4conf"},
	FormatCUE:         {".cue"},
	FormatTOML:        {".toml"},
	FormatYAML:        {".yaml", ".yml"},
	FormatJSON:        {".json"},
}

// Formats returns every concrete format in detection order.
func Formats() []Format {
	return []Format{
		FormatSXFM, FormatFeatureIDE, FormatXMI, FormatGlencoe,
		FormatDescriptive, FormatCUE, FormatTOML, FormatYAML, FormatJSON,
	}
}

// Extensions returns every file extension handled by some format, once each.
func Extensions() []string {
	var out []string
	for _, f := range Formats() {
		for _, ext := range extensions[f] {
			if !slices.Contains(out, ext) {
				out = append(out, ext)
			}
		}
	}
	return out
}

// ParseFormat converts a format name. "" and "auto" yield FormatNone.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "auto":
		return FormatNone, nil
	case "splot", "splx":
		return FormatSXFM, nil
	case "fm4conf":
		return FormatDescriptive, nil
	case "yml":
		return FormatYAML, nil
	}
	if f := Format(name); slices.Contains(Formats(), f) {
		return f, nil
	}
	return FormatNone, &InvalidFormatError{Value: s}
}

// String returns the format name, or "auto" for FormatNone.
func (f Format) String() string {
	if f == FormatNone {
		return "auto"
	}
	return string(f)
}

// Extensions returns the file extensions claimed by the format.
func (f Format) Extensions() []string { return slices.Clone(extensions[f]) }

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("invalid feature model format %q (valid: auto, %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
