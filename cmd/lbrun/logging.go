// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/dnzggg/leaderboard/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger creates the launcher's diagnostic logger. Only warnings reach the
// terminal unless verbose is set, so a normal launch leaves the evaluator's
// output untouched.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
