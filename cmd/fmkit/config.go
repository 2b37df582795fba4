// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fmkit/fmkit/internal/config"
)

// newConfigCommand creates the `fmkit config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fmkit configuration",
		Long: `Manage fmkit configuration.

Configuration is stored in:
  - Linux: ~/.config/fmkit/config.cue
  - macOS: ~/Library/Application Support/fmkit/config.cue
  - Windows: %APPDATA%\fmkit\config.cue

The --config flag selects another file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd, flags)
			if err != nil {
				return err
			}
			showConfig(app, s)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(flags.loadOptions())
			if err != nil {
				return app.fail(cmd, &session{verbose: flags.verbose}, err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(flags.loadOptions())
			if err != nil {
				return app.fail(cmd, &session{verbose: flags.verbose}, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd, flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, s *session) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	cfg := s.cfg

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if s.cfgPath != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), s.cfgPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_format"), valueStyle.Render(cfg.DefaultFormat))

	section := func(name string, kv ...string) {
		fmt.Fprintln(app.stdout)
		fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render(name))
		for i := 0; i+1 < len(kv); i += 2 {
			fmt.Fprintf(app.stdout, "  %s: %s\n", kv[i], valueStyle.Render(kv[i+1]))
		}
	}
	section("log", "level", cfg.Log.Level.String())
	section("ui",
		"color_scheme", cfg.UI.ColorScheme.String(),
		"verbose", fmt.Sprintf("%v", cfg.UI.Verbose))
	section("parser", "max_file_size", fmt.Sprintf("%d", cfg.Parser.MaxFileSize))
	section("batch", "concurrency", fmt.Sprintf("%d", cfg.Batch.Concurrency))

	ignore := SubtitleStyle.Render("(none configured)")
	if len(cfg.Watch.Ignore) > 0 {
		ignore = strings.Join(cfg.Watch.Ignore, ", ")
	}
	section("watch", "debounce", cfg.Watch.Debounce)
	fmt.Fprintf(app.stdout, "  ignore: %s\n", ignore)
}
