// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/dnzggg/leaderboard/internal/runtime"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// A nil Err means the evaluator ran and already reported its own failure, so
// nothing is printed.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeOf returns the process exit code for an error returned by the
// command tree. Codes outside 0-255 become the generic failure code, and an
// ExitError never maps to success.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if ok, _ := exitErr.Code.IsValid(); ok && !exitErr.Code.IsSuccess() {
			return int(exitErr.Code)
		}
	}
	return int(runtime.ExitCodeFailure)
}
