// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/internal/issue"
	"github.com/fmkit/fmkit/internal/watch"
	"github.com/fmkit/fmkit/pkg/fmparser"
)

// modelRefresher re-reads model files reported by the watcher.
type modelRefresher struct {
	baseDir string
	session *session
	stdout  io.Writer
}

// newWatchCommand creates `fmkit watch`.
func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-read model files as they change",
		Long: `Watch a directory tree for model files and re-read every file that is
created or modified, printing a one-line summary or the parse error.
Debounce and ignore patterns come from the watch section of the
configuration. Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd, flags)
			if err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			debounce, err := s.cfg.DebounceDuration()
			if err != nil {
				return app.fail(cmd, s, err)
			}

			r := &modelRefresher{session: s, stdout: app.stdout}
			w, err := watch.New(watch.Options{
				BaseDir:  dir,
				Ignore:   s.cfg.Watch.Ignore,
				Debounce: debounce,
				OnChange: r.refresh,
				Logger:   s.logger,
			})
			if err != nil {
				return app.fail(cmd, s, watchError(dir, err))
			}
			r.baseDir = w.BaseDir()

			if err := r.initial(cmd.Context()); err != nil {
				return app.fail(cmd, s, err)
			}
			fmt.Fprintf(app.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)...\n\n",
				CmdStyle.Render("→"), r.baseDir)

			if err := w.Run(cmd.Context()); err != nil {
				return app.fail(cmd, s, watchError(dir, err))
			}
			return nil
		},
	}
}

// initial reads every model file already under the base directory.
func (r *modelRefresher) initial(ctx context.Context) error {
	patterns := watch.ModelPatterns()
	for i, p := range patterns {
		patterns[i] = filepath.ToSlash(filepath.Join(r.baseDir, p))
	}
	paths, err := fmparser.Glob(patterns...)
	if err != nil {
		return err
	}
	return r.parse(ctx, paths)
}

// refresh is the watcher callback. Removed files are reported, the rest are
// re-read.
func (r *modelRefresher) refresh(ctx context.Context, changes []watch.Change) error {
	fmt.Fprintf(r.stdout, "%s %d change(s)\n", CmdStyle.Render("→"), len(changes))

	var paths []string
	for _, c := range changes {
		if c.Removed {
			fmt.Fprintf(r.stdout, "%s %s %s\n", VerboseStyle.Render("-"), CmdStyle.Render(c.Path), VerboseStyle.Render("removed"))
			continue
		}
		paths = append(paths, filepath.Join(r.baseDir, filepath.FromSlash(c.Path)))
	}
	return r.parse(ctx, paths)
}

func (r *modelRefresher) parse(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	results, err := fmparser.ParseAll(ctx, paths, fmparser.BatchOptions{
		Concurrency: r.session.cfg.Batch.Concurrency,
		Format:      r.session.format,
		Options:     r.session.parserOptions(),
	})
	if err != nil {
		return err
	}
	for _, res := range results {
		r.printResult(res)
	}
	return nil
}

func (r *modelRefresher) printResult(res fmparser.Result) {
	path := res.Path
	if rel, err := filepath.Rel(r.baseDir, res.Path); err == nil {
		path = filepath.ToSlash(rel)
	}
	if res.Err != nil {
		fmt.Fprintf(r.stdout, "%s %s\n    %s\n", ErrorStyle.Render("✗"), CmdStyle.Render(path),
			formatErrorForDisplay(classifyParseError(res.Path, res.Err), false))
		return
	}
	fm := res.Model
	fmt.Fprintf(r.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path),
		VerboseStyle.Render(fmt.Sprintf("%s: %d features, %d relationships, %d constraints",
			fm.Name(), fm.NumOfFeatures(), fm.NumOfRelationships(), fm.NumOfConstraints())))
}

func watchError(dir string, err error) error {
	return issue.NewErrorContext().
		WithOperation("watch model files").
		WithResource(dir).
		WithSuggestion("Check that the directory exists and is readable").
		WithIssue(issue.WatchFailedId).
		Wrap(err).
		BuildError()
}
