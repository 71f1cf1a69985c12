// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// NativeRuntime executes the evaluator directly as a host process.
type NativeRuntime struct{}

// NewNativeRuntime creates a new native runtime
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name
func (r *NativeRuntime) Name() string {
	return string(RuntimeTypeNative)
}

// Available returns whether this runtime is available
func (r *NativeRuntime) Available() bool {
	return true
}

// Execute starts the program with inherited streams and waits for it.
// When the context is cancelled the child is interrupted and, if it is still
// running after the grace period, killed.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	inv := ctx.Invocation
	if inv.Program == "" {
		return NewErrorResult(ExitCodeNotFound, errors.New("no program to execute"))
	}

	cmd := exec.CommandContext(ctx.goContext(), inv.Program, inv.Args...)
	cmd.Dir = ctx.WorkDir
	cmd.Env = ctx.environ()
	cmd.Stdin = ctx.IO.Stdin
	cmd.Stdout = ctx.IO.Stdout
	cmd.Stderr = ctx.IO.Stderr
	cmd.Cancel = func() error { return interrupt(cmd.Process) }
	cmd.WaitDelay = ctx.interruptGrace()

	if err := cmd.Start(); err != nil {
		return NewErrorResult(exitCodeFromStartError(err), fmt.Errorf("failed to start %s: %w", inv.Program, err))
	}

	// The child's status wins over Wait errors caused by cancellation or
	// WaitDelay, so an interrupted evaluator still reports its own code.
	err := cmd.Wait()
	if state := cmd.ProcessState; state != nil {
		return NewExitCodeResult(exitCodeFromState(state))
	}
	return NewErrorResult(ExitCodeFailure, fmt.Errorf("failed to wait for %s: %w", inv.Program, err))
}

// interrupt asks the process to stop the way a terminal Ctrl-C would.
// Windows has no SIGINT for arbitrary processes, so the child is killed there.
func interrupt(p *os.Process) error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	return p.Signal(os.Interrupt)
}
