// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dnzggg/leaderboard/internal/issue"
	"github.com/dnzggg/leaderboard/internal/launch"
	"github.com/dnzggg/leaderboard/internal/runtime"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// launchFlags holds the flags that only apply to the launch itself.
type launchFlags struct {
	dryRun  bool
	runtime string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var lf launchFlags

	rootCmd := &cobra.Command{
		Use:   "lbrun",
		Short: "Launch the leaderboard evaluator from environment variables",
		Long: TitleStyle.Render("lbrun") + SubtitleStyle.Render(" - leaderboard evaluator launcher") + `

lbrun reads the leaderboard environment variables, builds the evaluator
command line and runs it, exiting with the evaluator's exit status.

` + SubtitleStyle.Render("Environment:") + `
` + environmentHelp() + `
` + SubtitleStyle.Render("Examples:") + `
  lbrun                     Run the evaluator
  lbrun --dry-run           Print the evaluator command line
  lbrun vars                Show the variables lbrun reads
  lbrun config show         Show current configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLaunch(cmd.Context(), app, lf)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/lbrun/config.cue)")
	pf.StringArrayVar(&app.flags.envFiles, "env-file", nil, "load variables from a shell-syntax env file (repeatable, suffix '?' for optional)")
	pf.StringVar(&app.flags.recordDir, "record-dir", "", "override the --record directory passed to the evaluator")

	rootCmd.Flags().BoolVar(&lf.dryRun, "dry-run", false, "print the evaluator command line without running it")
	rootCmd.Flags().StringVar(&lf.runtime, "runtime", "", "runtime to start the evaluator with (native or virtual)")

	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newVarsCommand(app))

	return rootCmd
}

// runLaunch builds the invocation and runs it, returning an ExitError for any
// non-zero evaluator status.
func runLaunch(ctx context.Context, app *App, lf launchFlags) error {
	setup, err := app.prepareLaunch(ctx)
	if err != nil {
		return err
	}

	mode := runtime.RuntimeType(setup.cfg.Runtime)
	if lf.runtime != "" {
		mode = runtime.RuntimeType(lf.runtime)
	}
	if !mode.IsValid() {
		available := make([]string, 0, 2)
		for _, typ := range app.Runtimes.Available() {
			available = append(available, string(typ))
		}
		return issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(string(mode)).
			WithSuggestion("Use --runtime with one of: "+strings.Join(available, ", ")).
			Wrap(fmt.Errorf("unknown runtime %q", mode)).
			BuildError()
	}

	inv := launch.Build(launch.MapLookup(setup.env), setup.launchOpts)

	if lf.dryRun {
		_, err := fmt.Fprintln(app.stdout, inv.String())
		return err
	}

	grace, err := setup.cfg.Grace()
	if err != nil {
		return issue.WrapWithOperation(err, "read interrupt grace")
	}

	execCtx := runtime.NewExecutionContext(ctx, inv)
	execCtx.Env = setup.env
	execCtx.IO = runtime.IOContext{Stdin: app.stdin, Stdout: app.stdout, Stderr: app.stderr}
	execCtx.InterruptGrace = grace

	logger := app.logger.With("execution_id", execCtx.ExecutionID)
	logger.Debug("launching evaluator", "runtime", mode, "command", inv.String())

	result := app.Runtimes.Execute(mode, execCtx)

	logger.Debug("evaluator finished", "exit_code", result.ExitCode)
	if result.ExitCode.IsSignal() {
		logger.Debug("evaluator terminated by signal", "signal", result.ExitCode.Signal())
	}
	if ctx.Err() != nil {
		logger.Debug("launch interrupted", "grace", grace)
	}

	if !result.Success() {
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}
	return nil
}

// environmentHelp lists the variables read for each evaluator flag.
func environmentHelp() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %-26s root of the leaderboard checkout\n", launch.EnvLeaderboardRoot)
	for _, v := range launch.Variables() {
		name := v.Env
		if v.IsConstant() {
			name = "(constant)"
		}
		fmt.Fprintf(&sb, "  %-26s --%s\n", name, v.Flag)
	}
	return sb.String()
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// errorHandler prints command errors. Evaluator exit statuses are not
// printed since the evaluator reports its own failures.
func errorHandler(app *App) func(io.Writer, fang.Styles, error) {
	return func(w io.Writer, _ fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+issue.FormatForDisplay(err, app.verbose))
	}
}

// Execute runs the command tree and exits with the resulting status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(app)),
	)
	os.Exit(exitCodeOf(err))
}
