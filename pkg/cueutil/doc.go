// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing and encoding utilities.
//
// Parsing follows a 3-step flow used by the feature-model document codec and
// by the configuration loader:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed featuremodel_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[fmdoc.Document](
//	    schemaBytes,
//	    userFileBytes,
//	    "#FeatureModel",
//	    cueutil.WithFilename("bike.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
//
// Encode renders a Go value back to formatted CUE source.
package cueutil
