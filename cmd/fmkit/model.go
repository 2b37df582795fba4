// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/pkg/featuremodel"
)

// newShowCommand creates `fmkit show`, which prints the canonical description.
func newShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a model in canonical form",
		Long: `Print a feature model in canonical form: its features, then its
relationships, then its constraints, one tab-indented entry per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withModel(cmd, flags, args[0], func(_ *session, fm *featuremodel.FeatureModel) error {
				fmt.Fprint(app.stdout, fm.String())
				return nil
			})
		},
	}
}

// newInfoCommand creates `fmkit info`, a styled count summary.
func newInfoCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withModel(cmd, flags, args[0], func(_ *session, fm *featuremodel.FeatureModel) error {
				fmt.Fprintln(app.stdout, renderSummary(args[0], fm))
				return nil
			})
		},
	}
}

// newFeaturesCommand creates `fmkit features`.
func newFeaturesCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "features <file>",
		Short: "List features with mandatory and optional markers",
		Long: `List the features of a model in insertion order.

Markers:
  R  root feature
  M  mandatory (right side of a mandatory relationship)
  O  optional (optional child or member of an or/alternative group)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withModel(cmd, flags, args[0], func(_ *session, fm *featuremodel.FeatureModel) error {
				writeFeatures(app.stdout, fm)
				return nil
			})
		},
	}
}

// newRelationsCommand creates `fmkit relations`.
func newRelationsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "relations <file> <feature>",
		Short: "Print the relationships and constraints that involve a feature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withFeature(cmd, flags, args, func(fm *featuremodel.FeatureModel, f featuremodel.Feature) error {
				for _, r := range fm.RelationshipsWith(f) {
					fmt.Fprintln(app.stdout, r.ConfRule())
				}
				return nil
			})
		},
	}
}

// newChildrenCommand creates `fmkit children`.
func newChildrenCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "children <file> <feature>",
		Short: "Print the features one structural step below a feature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withFeature(cmd, flags, args, func(fm *featuremodel.FeatureModel, f featuremodel.Feature) error {
				children, err := fm.RightSideOfRelationships(f)
				if err != nil {
					return err
				}
				writeNames(app.stdout, children)
				return nil
			})
		},
	}
}

// newParentsCommand creates `fmkit parents`.
func newParentsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "parents <file> <feature>",
		Short: "Print the mandatory features a feature depends on",
		Long: `Print the mandatory features whose selection is required for the given
feature, found through requires constraints and or/alternative groups.
Clause (3cnf) constraints are not followed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withFeature(cmd, flags, args, func(fm *featuremodel.FeatureModel, f featuremodel.Feature) error {
				writeNames(app.stdout, fm.MandatoryParents(f))
				return nil
			})
		},
	}
}

// withModel opens a session, reads path and runs fn, rendering any failure.
func (a *App) withModel(cmd *cobra.Command, flags *rootFlagValues, path string, fn func(*session, *featuremodel.FeatureModel) error) error {
	s, err := a.start(cmd, flags)
	if err != nil {
		return err
	}
	fm, err := s.loadModel(cmd.Context(), path)
	if err != nil {
		return a.fail(cmd, s, err)
	}
	if err := fn(s, fm); err != nil {
		return a.fail(cmd, s, err)
	}
	return nil
}

// withFeature is withModel for commands taking <file> <feature>.
func (a *App) withFeature(cmd *cobra.Command, flags *rootFlagValues, args []string, fn func(*featuremodel.FeatureModel, featuremodel.Feature) error) error {
	return a.withModel(cmd, flags, args[0], func(_ *session, fm *featuremodel.FeatureModel) error {
		f, err := findFeature(fm, args[1])
		if err != nil {
			return err
		}
		return fn(fm, f)
	})
}

func renderSummary(path string, fm *featuremodel.FeatureModel) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(fm.Name()))
	sb.WriteByte('\n')
	sb.WriteString(SubtitleStyle.Render(path))
	sb.WriteString("\n\n")

	row := func(label string, n int) {
		sb.WriteString(summaryKeyStyle.Render(label))
		fmt.Fprintf(&sb, "%d\n", n)
	}
	row("features", fm.NumOfFeatures())
	row("relationships", fm.NumOfRelationships())
	row("constraints", fm.NumOfConstraints())
	sb.WriteByte('\n')
	for _, typ := range featuremodel.RelationshipTypes() {
		row(typ.String(), fm.NumOfRelationshipsOfType(typ))
	}
	if root, ok := fm.Root(); ok {
		sb.WriteByte('\n')
		sb.WriteString(summaryKeyStyle.Render("root"))
		sb.WriteString(CmdStyle.Render(root.Name()))
	}
	return summaryBoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func writeFeatures(w io.Writer, fm *featuremodel.FeatureModel) {
	root, hasRoot := fm.Root()
	for _, f := range fm.Features() {
		marker := " "
		switch {
		case hasRoot && f == root:
			marker = TitleStyle.Render("R")
		case fm.IsMandatoryFeature(f):
			marker = SuccessStyle.Render("M")
		case fm.IsOptionalFeature(f):
			marker = WarningStyle.Render("O")
		}
		line := marker + " " + CmdStyle.Render(f.Name())
		if f.ID() != f.Name() {
			line += " " + VerboseStyle.Render("("+f.ID()+")")
		}
		fmt.Fprintln(w, line)
	}
}

func writeNames(w io.Writer, features []featuremodel.Feature) {
	for _, f := range features {
		fmt.Fprintln(w, f.Name())
	}
}
