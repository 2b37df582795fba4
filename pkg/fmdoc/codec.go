// SPDX-License-Identifier: MPL-2.0

package fmdoc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/fmkit/fmkit/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed featuremodel_schema.cue
var featureModelSchema []byte

// DecodeCUE validates CUE source against the #FeatureModel schema and decodes
// it. filename is used in error messages; maxFileSize <= 0 keeps the cueutil
// default.
func DecodeCUE(data []byte, filename string, maxFileSize int64) (*Document, error) {
	result, err := cueutil.ParseAndDecode[Document](
		featureModelSchema,
		data,
		"#FeatureModel",
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(maxFileSize),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// EncodeCUE renders the document as formatted CUE.
func EncodeCUE(d Document) ([]byte, error) {
	return cueutil.Encode(d)
}

// DecodeTOML decodes a TOML document. Unknown keys are rejected.
func DecodeTOML(data []byte) (*Document, error) {
	var d Document
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	return &d, nil
}

// EncodeTOML renders the document as TOML.
func EncodeTOML(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf).SetIndentTables(true)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML decodes a YAML document. Unknown keys are rejected.
func DecodeYAML(data []byte) (*Document, error) {
	var d Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	return &d, nil
}

// EncodeYAML renders the document as YAML with two-space indentation.
func EncodeYAML(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJSON decodes a JSON document. Unknown keys are rejected, so Glencoe
// models (which carry a tree member) never decode as documents.
func DecodeJSON(data []byte) (*Document, error) {
	var d Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return &d, nil
}

// EncodeJSON renders the document as indented JSON.
func EncodeJSON(d Document) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}
	return append(out, '\n'), nil
}
