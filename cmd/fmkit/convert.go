// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/internal/issue"
	"github.com/fmkit/fmkit/pkg/featuremodel"
	"github.com/fmkit/fmkit/pkg/fmdoc"
)

// convertTargets are the output formats of `fmkit convert`, in help order.
var convertTargets = []string{"cue", "toml", "yaml", "json", "descriptive"}

// newConvertCommand creates `fmkit convert`.
func newConvertCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a model to another format",
		Long: `Convert a feature model to a CUE, TOML, YAML or JSON document, or to the
descriptive fm4conf text format. Documents reference features by id and can
be read back by every fmkit command.`,
		Example: `  # Print a CUE document
  fmkit convert bike.xml --to cue

  # Write a YAML document
  fmkit convert bike.sxfm --to yaml -o bike.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isConvertTarget(to) {
				return app.fail(cmd, &session{verbose: flags.verbose}, unknownTargetError(to))
			}
			return app.withModel(cmd, flags, args[0], func(s *session, fm *featuremodel.FeatureModel) error {
				data, err := encodeModel(fm, to)
				if err != nil {
					return err
				}
				if output == "" {
					_, err = app.stdout.Write(data)
					return err
				}
				if err := writeOutput(output, data); err != nil {
					return err
				}
				s.logger.Debug("wrote converted model", "file", output, "format", to)
				fmt.Fprintf(app.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "cue", "output format ("+strings.Join(convertTargets, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

// encodeModel renders fm in the target format.
func encodeModel(fm *featuremodel.FeatureModel, target string) ([]byte, error) {
	if target == "descriptive" || target == "fm4conf" {
		return []byte(fm.String()), nil
	}

	doc := fmdoc.FromModel(fm)
	switch target {
	case "cue":
		return fmdoc.EncodeCUE(doc)
	case "toml":
		return fmdoc.EncodeTOML(doc)
	case "yaml", "yml":
		return fmdoc.EncodeYAML(doc)
	case "json":
		return fmdoc.EncodeJSON(doc)
	}
	return nil, unknownTargetError(target)
}

func unknownTargetError(target string) error {
	return issue.NewErrorContext().
		WithOperation("convert feature model").
		WithResource(target).
		WithSuggestion("Use --to with one of: " + strings.Join(convertTargets, ", ")).
		WithIssue(issue.InvalidFormatId).
		Wrap(fmt.Errorf("unknown output format %q", target)).
		BuildError()
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return issue.WrapWithContext(err, "write converted model", path)
	}
	return nil
}

// isConvertTarget reports whether s names an output format.
func isConvertTarget(s string) bool {
	return slices.Contains(convertTargets, s) || s == "fm4conf" || s == "yml"
}
