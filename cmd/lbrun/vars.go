// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/dnzggg/leaderboard/internal/launch"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// newVarsCommand creates the `lbrun vars` command.
func newVarsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "Show the environment variables lbrun reads",
		Long: `Show every environment variable lbrun reads, the evaluator flag it feeds
and its current value. Env files from the configuration and --env-file are
applied first, exactly as for a launch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setup, err := app.prepareLaunch(cmd.Context())
			if err != nil {
				return err
			}
			renderVars(app.stdout, launch.Snapshot(launch.MapLookup(setup.env), setup.launchOpts))
			return nil
		},
	}
}

func renderVars(w io.Writer, states []launch.VariableState) {
	rows := make([][]string, 0, len(states))
	for _, s := range states {
		name := s.Env
		if s.IsConstant() {
			name = SubtitleStyle.Render("(constant)")
		}

		flag := SubtitleStyle.Render("(program)")
		if s.Flag != "" {
			flag = CmdStyle.Render("--" + s.Flag)
		}

		value := s.Value
		if !s.Set {
			value = SubtitleStyle.Render("(unset)")
		}

		rows = append(rows, []string{name, flag, value})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers("VARIABLE", "FLAG", "VALUE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	fmt.Fprintln(w, t.Render())
}
