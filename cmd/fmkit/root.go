// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/internal/issue"
	"github.com/fmkit/fmkit/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the fmkit command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "fmkit",
		Short: "Read, query and check feature models",
		Long: TitleStyle.Render("fmkit") + SubtitleStyle.Render(" - Read, query and check feature models") + `

fmkit reads feature models written in SXFM/SPLOT, FeatureIDE, v.control XMI,
Glencoe, the descriptive fm4conf text format, and CUE/TOML/YAML documents.
It prints them in a canonical form, answers structural queries, converts
between formats, and lints them for inconsistent constraints.

` + SubtitleStyle.Render("Examples:") + `
  fmkit show bike.sxfm                  Print the canonical description
  fmkit info bike.xml                   Summarize counts per relationship type
  fmkit parents bike.sxfm Disc          Mandatory ancestors of a feature
  fmkit convert bike.xml --to cue       Convert to a CUE document
  fmkit check 'models/**/*.sxfm'        Parse and lint many models at once
  fmkit watch models                    Re-read models as they change`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/fmkit/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.format, "format", "f", "", "force a reader (auto, sxfm, featureide, xmi, glencoe, descriptive, cue, toml, yaml)")

	rootCmd.AddCommand(
		newShowCommand(app, flags),
		newInfoCommand(app, flags),
		newFeaturesCommand(app, flags),
		newRelationsCommand(app, flags),
		newChildrenCommand(app, flags),
		newParentsCommand(app, flags),
		newConvertCommand(app, flags),
		newCheckCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
// Priority: ldflags version, then the module version recorded by go install.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version + " (go install)"
	}
	return "dev (built from source)"
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(int(types.ExitFindings))
	}

	// fang overrides rootCmd.Version, so the version is passed as an option.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFindings))
	}
}

// start opens a session for cmd. Failures are already rendered when returned.
func (a *App) start(cmd *cobra.Command, flags *rootFlagValues) (*session, error) {
	s, err := a.newSession(cmd.Context(), flags)
	if err != nil {
		return nil, a.fail(cmd, &session{verbose: flags.verbose}, err)
	}
	return s, nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
