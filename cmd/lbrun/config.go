// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dnzggg/leaderboard/internal/config"
	"github.com/dnzggg/leaderboard/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `lbrun config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lbrun configuration",
		Long: `Manage lbrun configuration.

Configuration is stored in:
  - Linux: ~/.config/lbrun/config.cue
  - macOS: ~/Library/Application Support/lbrun/config.cue
  - Windows: %APPDATA%\lbrun\config.cue

A config.cue in the current directory is used when the user file is absent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var asTOML bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if asTOML {
				data, err := config.MarshalTOML(cfg)
				if err != nil {
					return issue.WrapWithOperation(err, "render configuration as TOML")
				}
				_, err = app.stdout.Write(data)
				return err
			}
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: app.flags.configPath})
			if err != nil {
				return err
			}
			showConfig(app.stdout, cfg, path)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&asTOML, "toml", false, "print the effective configuration as TOML")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return issue.WrapWithOperation(err, "create default configuration")
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
		RunE: func(_ *cobra.Command, _ []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("runtime"), valueStyle.Render(string(cfg.Runtime)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("record_dir"), valueStyle.Render(cfg.RecordDir))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("evaluator_script"), valueStyle.Render(cfg.EvaluatorScript))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("interrupt_grace"), valueStyle.Render(cfg.InterruptGrace))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("env_files"))
	if len(cfg.EnvFiles) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, f := range cfg.EnvFiles {
			line := "  - " + valueStyle.Render(strings.TrimSuffix(f, "?"))
			if strings.HasSuffix(f, "?") {
				line += " " + SubtitleStyle.Render("(optional)")
			}
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
}
