// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

// Shell-defined exit codes for failures that happen before or instead of a
// normal child exit.
const (
	// ExitCodeFailure is the generic launcher failure code.
	ExitCodeFailure ExitCode = 1
	// ExitCodeCannotExecute means the program exists but could not be executed.
	ExitCodeCannotExecute ExitCode = 126
	// ExitCodeNotFound means the program (or its interpreter) does not exist.
	ExitCodeNotFound ExitCode = 127
	// exitCodeSignalBase is added to the signal number when the child is killed by a signal.
	exitCodeSignalBase = 128
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}

	// signalStatus is satisfied by syscall.WaitStatus on every platform.
	signalStatus interface {
		Signaled() bool
		Signal() syscall.Signal
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the valid range (0-255),
// and a list of validation errors if it is not.
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsSignal reports whether the code encodes death by a signal (128+N).
func (c ExitCode) IsSignal() bool { return c > exitCodeSignalBase && c <= 255 }

// Signal returns the signal number encoded by the code, or 0 if there is none.
func (c ExitCode) Signal() int {
	if !c.IsSignal() {
		return 0
	}
	return int(c) - exitCodeSignalBase
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// exitCodeFromState maps a finished process to a shell-style exit code.
func exitCodeFromState(state *os.ProcessState) ExitCode {
	if ws, ok := state.Sys().(signalStatus); ok && ws.Signaled() {
		return ExitCode(exitCodeSignalBase + int(ws.Signal()))
	}
	return ExitCode(state.ExitCode())
}

// exitCodeFromStartError maps a failure to start the program to the code a
// POSIX shell would report for it.
func exitCodeFromStartError(err error) ExitCode {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitCodeNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.ENOEXEC):
		return ExitCodeCannotExecute
	default:
		return ExitCodeFailure
	}
}
