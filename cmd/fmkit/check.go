// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/internal/issue"
	"github.com/fmkit/fmkit/pkg/fmcheck"
	"github.com/fmkit/fmkit/pkg/fmparser"
	"github.com/fmkit/fmkit/pkg/types"
)

var (
	errNoModelFiles = errors.New("no model files matched")

	// ruleIssues links lint rules to their catalog entries.
	ruleIssues = map[fmcheck.Rule]issue.Id{
		fmcheck.RuleRequiresCycle:          issue.RequiresCycleId,
		fmcheck.RuleRequireExcludeConflict: issue.ConstraintConflictId,
	}
)

type checkTotals struct {
	files      int
	unreadable int
	failing    int
	warnings   int
	code       types.ExitCode
}

// newCheckCommand creates `fmkit check`.
func newCheckCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <file|glob>...",
		Short: "Parse models and lint them for inconsistencies",
		Long: `Parse every matching model file concurrently and run the lint rules:

  requires-cycle            features that require each other in a loop (warning)
  unreachable-feature       features not connected to the root (error)
  require-exclude-conflict  a feature both requires and excludes another (error)
  unknown-literal           a clause names a feature the model lacks (error)

Exit status is 0 when every model is clean, 1 when a model has error
findings, and 2 when a file could not be read.`,
		Example: `  fmkit check bike.sxfm
  fmkit check 'models/**/*.{sxfm,xml}' --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd, flags)
			if err != nil {
				return err
			}

			paths, err := fmparser.Glob(args...)
			if err != nil {
				return app.fail(cmd, s, err)
			}
			if len(paths) == 0 {
				return app.fail(cmd, s, issue.NewErrorContext().
					WithOperation("check feature models").
					WithSuggestion("Quote glob patterns so the shell does not expand them").
					WithIssue(issue.FileNotFoundId).
					Wrap(errNoModelFiles).
					BuildError())
			}

			results, err := fmparser.ParseAll(cmd.Context(), paths, fmparser.BatchOptions{
				Concurrency: s.cfg.Batch.Concurrency,
				Format:      s.format,
				Options:     s.parserOptions(),
			})
			if err != nil {
				return app.fail(cmd, s, err)
			}

			totals := app.reportResults(s, results, strict)
			if totals.code.IsSuccess() {
				return nil
			}
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: totals.code}
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")

	return cmd
}

// reportResults prints one block per file and a summary line.
func (a *App) reportResults(s *session, results []fmparser.Result, strict bool) checkTotals {
	totals := checkTotals{files: len(results)}
	guides := map[issue.Id]bool{}

	for _, res := range results {
		if res.Err != nil {
			totals.unreadable++
			totals.code = totals.code.Worst(types.ExitUnreadable)
			fmt.Fprintf(a.stdout, "%s %s\n", ErrorStyle.Render("✗"), CmdStyle.Render(res.Path))
			fmt.Fprintf(a.stdout, "    %s\n", formatErrorForDisplay(classifyParseError(res.Path, res.Err), false))
			continue
		}

		report := fmcheck.Check(res.Model)
		totals.warnings += report.Count(fmcheck.SeverityWarning)
		failed := report.HasErrors() || (strict && len(report.Findings) > 0)
		if failed {
			totals.failing++
			totals.code = totals.code.Worst(types.ExitFindings)
		}

		mark := SuccessStyle.Render("✓")
		if failed {
			mark = ErrorStyle.Render("✗")
		} else if len(report.Findings) > 0 {
			mark = WarningStyle.Render("!")
		}
		fmt.Fprintf(a.stdout, "%s %s %s\n", mark, CmdStyle.Render(res.Path),
			VerboseStyle.Render(fmt.Sprintf("(%d features)", res.Model.NumOfFeatures())))

		for _, f := range report.Findings {
			style := WarningStyle
			if f.Severity == fmcheck.SeverityError {
				style = ErrorStyle
			}
			fmt.Fprintf(a.stdout, "    %s %s\n", style.Render(string(f.Severity)), fmt.Sprintf("[%s] %s", f.Rule, f.Message))
			if id, ok := ruleIssues[f.Rule]; ok && s.verbose {
				guides[id] = true
			}
		}
	}

	for _, id := range []issue.Id{issue.RequiresCycleId, issue.ConstraintConflictId} {
		if !guides[id] {
			continue
		}
		rendered, err := issue.Get(id).Render(guideStyle(s.cfg.UI.ColorScheme))
		if err != nil {
			s.logger.Warn("failed to render issue guide", "issue", id, "error", err)
			continue
		}
		fmt.Fprint(a.stdout, rendered)
	}

	fmt.Fprintf(a.stdout, "\n%d file(s) checked, %d unreadable, %d failing, %d warning(s)\n",
		totals.files, totals.unreadable, totals.failing, totals.warnings)
	return totals
}
