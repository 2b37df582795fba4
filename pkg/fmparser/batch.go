// SPDX-License-Identifier: MPL-2.0

package fmparser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/fmkit/fmkit/pkg/featuremodel"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files ParseAll reads at once when
// BatchOptions.Concurrency is not set.
const DefaultConcurrency = 4

type (
	// BatchOptions configures ParseAll.
	BatchOptions struct {
		// Concurrency bounds the number of files read at once.
		Concurrency int
		// Format forces one reader; FormatNone detects per file.
		Format Format
		// Options is passed to every reader.
		Options Options
	}

	// Result is the outcome of reading one file.
	Result struct {
		Path  string
		Model *featuremodel.FeatureModel
		Err   error
	}
)

// Glob expands doublestar patterns ("models/**/*.sxfm") into a sorted,
// deduplicated list of files. A pattern without glob metacharacters is kept
// as is so that a missing file is reported by the reader.
func Glob(patterns ...string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}

		base, rest := doublestar.SplitPattern(pattern)
		if !hasMeta(rest) {
			paths = append(paths, filepath.FromSlash(pattern))
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(filepath.FromSlash(base)), rest, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			paths = append(paths, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
		}
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// ParseAll reads every path concurrently. Results are in input order; a
// failing file records its error and does not stop the others. ParseAll
// returns an error only when ctx is done before all files were read.
func ParseAll(ctx context.Context, paths []string, opts BatchOptions) ([]Result, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]Result, len(paths))
	for i, path := range paths {
		results[i].Path = path
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fm, err := Parse(gctx, path, opts.Format, opts.Options)
			results[i].Model, results[i].Err = fm, err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
