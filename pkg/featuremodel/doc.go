// SPDX-License-Identifier: MPL-2.0

// Package featuremodel provides the canonical in-memory representation of a
// feature model: features, structural relationships (mandatory, optional,
// or, alternative), cross-tree constraints (requires, excludes, 3-CNF) and the
// queries derived from them.
//
// A model is built once through the construction API, in the order a reader
// discovers elements in its source file, and queried afterwards:
//
//	fm := featuremodel.New(featuremodel.Options{})
//	_ = fm.AddFeature("Bike", "bike")
//	_ = fm.AddFeature("Frame", "frame")
//	bike, _ := fm.FeatureByID("bike")
//	frame, _ := fm.FeatureByID("frame")
//	_ = fm.AddRelationship(featuremodel.Mandatory, bike, []featuremodel.Feature{frame})
//	fmt.Print(fm) // canonical text
//
// The package performs no I/O and does not parse any file format; see
// package fmparser for readers.
package featuremodel
