// SPDX-License-Identifier: MPL-2.0

// Package fmdoc defines Document, a flat serializable form of a feature model,
// and its CUE, TOML, YAML and JSON codecs.
//
// A Document references features by id in relationships and basic
// constraints. 3-CNF constraints list clause texts ("F7", "~F1") that name
// features, matching the in-memory model.
package fmdoc
