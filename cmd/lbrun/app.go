// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/dnzggg/leaderboard/internal/config"
	"github.com/dnzggg/leaderboard/internal/issue"
	"github.com/dnzggg/leaderboard/internal/launch"
	"github.com/dnzggg/leaderboard/internal/runtime"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives the App and reads configuration and runtimes through it.
	App struct {
		Config   ConfigProvider
		Runtimes *runtime.Registry
		environ  func() []string
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer

		flags   globalFlags
		verbose bool
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Runtimes *runtime.Registry
		// Environ returns the host environment as KEY=VALUE pairs.
		Environ func() []string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// globalFlags holds the persistent flags shared by all commands.
	globalFlags struct {
		configPath string
		verbose    bool
		envFiles   []string
		recordDir  string
	}

	// launchSetup is everything derived from config, flags and the environment
	// before the evaluator is started.
	launchSetup struct {
		cfg        *config.Config
		env        map[string]string
		launchOpts launch.Options
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runtimes == nil {
		deps.Runtimes = runtime.NewDefaultRegistry()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		Config:   deps.Config,
		Runtimes: deps.Runtimes,
		environ:  deps.Environ,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		logger:   newLogger(deps.Stderr, false),
	}
}

// loadConfig loads the configuration selected by --config and applies the
// verbose setting from the flag or the file.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	a.setVerbose(a.flags.verbose)

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, err
	}

	a.setVerbose(a.flags.verbose || cfg.UI.Verbose)
	return cfg, nil
}

func (a *App) setVerbose(verbose bool) {
	a.verbose = verbose
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.WarnLevel)
	}
}

// prepareLaunch resolves configuration, env files and the record directory.
// Env files from the config are applied before those given with --env-file.
func (a *App) prepareLaunch(ctx context.Context) (*launchSetup, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	files := append(append([]string{}, cfg.EnvFiles...), a.flags.envFiles...)
	env, err := runtime.BuildEnv(runtime.EnvFromSlice(a.environ()), files, "")
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load env files").
			WithSuggestion("Env files may only contain assignments such as KEY=value or export KEY=value").
			WithSuggestion("Append '?' to a path to make the file optional").
			Wrap(err).
			BuildError()
	}
	for _, f := range files {
		a.logger.Debug("env file applied", "path", f)
	}

	opts := cfg.LaunchOptions()
	if a.flags.recordDir != "" {
		opts.RecordDir = a.flags.recordDir
	}

	return &launchSetup{cfg: cfg, env: env, launchOpts: opts}, nil
}
