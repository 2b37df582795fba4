// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/internal/config"
	"github.com/fmkit/fmkit/internal/issue"
	"github.com/fmkit/fmkit/pkg/featuremodel"
	"github.com/fmkit/fmkit/pkg/fmparser"
	"github.com/fmkit/fmkit/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra command handler receives an App reference.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		verbose    bool
		configPath string
		format     string
	}

	// session is the per-invocation state derived from flags and configuration.
	session struct {
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
		format  fmparser.Format
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

func (f *rootFlagValues) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(f.configPath)}
}

// newSession loads configuration and resolves the logger and reader format.
// Flags take precedence over configuration values.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, cfgPath, err := a.Config.Resolve(ctx, flags.loadOptions())
	if err != nil {
		return nil, withIssue(err, issue.ConfigLoadFailedId)
	}

	s := &session{
		cfg:     cfg,
		cfgPath: cfgPath,
		verbose: flags.verbose || cfg.UI.Verbose,
	}

	formatName := cfg.DefaultFormat
	if flags.format != "" {
		formatName = flags.format
	}
	s.format, err = fmparser.ParseFormat(formatName)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select reader").
			WithResource(formatName).
			WithSuggestion(fmt.Sprintf("Use one of: auto, %v", fmparser.Formats())).
			WithIssue(issue.InvalidFormatId).
			Wrap(err).
			BuildError()
	}

	level := cfg.Log.Level.Level()
	if s.verbose {
		level = log.DebugLevel
	}
	s.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})

	applyColorScheme(cfg.UI.ColorScheme)
	return s, nil
}

func (s *session) parserOptions() fmparser.Options {
	return fmparser.Options{
		Logger:      s.logger,
		MaxFileSize: s.cfg.Parser.MaxFileSize,
	}
}

// loadModel reads one model file and classifies failures for display.
func (s *session) loadModel(ctx context.Context, path string) (*featuremodel.FeatureModel, error) {
	fm, err := fmparser.Parse(ctx, path, s.format, s.parserOptions())
	if err != nil {
		return nil, classifyParseError(path, err)
	}
	return fm, nil
}

// classifyParseError turns a reader failure into an ActionableError linked to
// the matching issue catalog entry.
func classifyParseError(path string, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("read feature model").
		WithResource(path).
		Wrap(err)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		ec.WithIssue(issue.FileNotFoundId).
			WithSuggestion("Verify the file path is correct")
	case errors.Is(err, fs.ErrPermission):
		ec.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check that the file is readable by the current user")
	case errors.Is(err, fmparser.ErrFileTooLarge):
		ec.WithIssue(issue.FileTooLargeId).
			WithSuggestion("Raise parser.max_file_size in the configuration")
	case errors.Is(err, fmparser.ErrUnsupportedFormat):
		ec.WithIssue(issue.UnsupportedFormatId).
			WithSuggestion("Force a reader with --format")
	default:
		ec.WithIssue(issue.ModelParseErrorId)
	}
	return ec.BuildError()
}

// findFeature resolves ref as a feature id first, then as a name.
func findFeature(fm *featuremodel.FeatureModel, ref string) (featuremodel.Feature, error) {
	if f, err := fm.FeatureByID(ref); err == nil {
		return f, nil
	}
	f, err := fm.FeatureByName(ref)
	if err != nil {
		return featuremodel.Feature{}, issue.NewErrorContext().
			WithOperation("find feature").
			WithResource(ref).
			WithSuggestion("Run 'fmkit features <file>' to list the model's features").
			WithIssue(issue.FeatureNotFoundId).
			Wrap(err).
			BuildError()
	}
	return f, nil
}

// withIssue links err to id unless it already carries a catalog entry.
func withIssue(err error, id issue.Id) error {
	if _, ok := issue.IssueOf(err); ok {
		return err
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID == 0 {
		ae.IssueID = id
		return err
	}
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(id).
		Wrap(err).
		BuildError()
}

// exitCodeFor maps an error to the process exit status.
func exitCodeFor(err error) types.ExitCode {
	switch {
	case errors.Is(err, fmparser.ErrParse), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return types.ExitUnreadable
	default:
		return types.ExitFindings
	}
}

// fail renders err on stderr, followed by its issue guide in verbose mode,
// and returns the ExitError that carries the exit code through cobra.
func (a *App) fail(cmd *cobra.Command, s *session, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	verbose := s != nil && s.verbose
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if verbose {
		style := guideStyle(config.ColorSchemeAuto)
		if s.cfg != nil {
			style = guideStyle(s.cfg.UI.ColorScheme)
		}
		renderIssueGuide(a.stderr, s.logger, err, style)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// renderIssueGuide prints the catalog entry linked to err, if any.
func renderIssueGuide(w io.Writer, logger *log.Logger, err error, style string) {
	id, ok := issue.IssueOf(err)
	if !ok {
		return
	}
	rendered, renderErr := issue.Get(id).Render(style)
	if renderErr != nil {
		if logger != nil {
			logger.Warn("failed to render issue guide", "issue", id, "error", renderErr)
		}
		return
	}
	fmt.Fprint(w, rendered)
}
