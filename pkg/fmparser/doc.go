// SPDX-License-Identifier: MPL-2.0

// Package fmparser reads feature model files into featuremodel.FeatureModel
// values.
//
// Supported formats:
//   - SXFM / SPLOT (.sxfm, .splx)
//   - FeatureIDE (.xml)
//   - v.control XMI (.xmi)
//   - Glencoe (.json)
//   - Descriptive, the canonical text rendering (.fm4conf)
//   - fmkit documents in CUE, TOML or YAML (.cue, .toml, .yaml, .yml)
//
// Readers are obtained with New for a known format or Detect for a path.
// Every failure is returned as a *ParseError, which matches ErrParse with
// errors.Is. ParseAll reads many files concurrently.
package fmparser
