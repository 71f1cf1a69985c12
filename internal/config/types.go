// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dnzggg/leaderboard/internal/launch"
	"github.com/dnzggg/leaderboard/internal/runtime"
)

// DefaultInterruptGrace is the default interrupt_grace value.
const DefaultInterruptGrace = "10s"

var (
	// ErrInvalidConfigRuntimeMode is returned when the runtime key names no known runtime.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidInterruptGrace is returned when interrupt_grace is not a positive duration.
	ErrInvalidInterruptGrace = errors.New("invalid interrupt grace")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Runtime is "native" or "virtual".
		Runtime runtime.RuntimeType `json:"runtime" mapstructure:"runtime" toml:"runtime"`
		// RecordDir is the value passed to the evaluator's --record flag.
		RecordDir string `json:"record_dir" mapstructure:"record_dir" toml:"record_dir"`
		// EvaluatorScript is the evaluator path relative to LEADERBOARD_ROOT.
		EvaluatorScript string `json:"evaluator_script" mapstructure:"evaluator_script" toml:"evaluator_script"`
		// InterruptGrace is a Go duration string.
		InterruptGrace string `json:"interrupt_grace" mapstructure:"interrupt_grace" toml:"interrupt_grace"`
		// EnvFiles are loaded before the environment is read.
		EnvFiles []string `json:"env_files" mapstructure:"env_files" toml:"env_files"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Runtime:         runtime.RuntimeTypeNative,
		RecordDir:       launch.DefaultRecordDir,
		EvaluatorScript: launch.DefaultEvaluatorScript,
		InterruptGrace:  DefaultInterruptGrace,
		EnvFiles:        []string{},
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Grace returns InterruptGrace as a duration. The duration must be positive.
func (c *Config) Grace() (time.Duration, error) {
	d, err := time.ParseDuration(c.InterruptGrace)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidInterruptGrace, c.InterruptGrace, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidInterruptGrace, c.InterruptGrace)
	}
	return d, nil
}

// LaunchOptions returns the invocation options derived from the configuration.
func (c *Config) LaunchOptions() launch.Options {
	return launch.Options{
		RecordDir:       c.RecordDir,
		EvaluatorScript: c.EvaluatorScript,
	}
}

// Validate checks constraints the CUE schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if !c.Runtime.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q (must be native or virtual)", ErrInvalidConfigRuntimeMode, c.Runtime))
	}
	if _, err := c.Grace(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
