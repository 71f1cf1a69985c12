// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime runs the evaluator through the embedded mvdan/sh
// interpreter, the way the command line would run under a POSIX shell.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string {
	return string(RuntimeTypeVirtual)
}

// Available returns whether this runtime is available
func (r *VirtualRuntime) Available() bool {
	// Virtual runtime is always available as it's built-in
	return true
}

// positionalCall runs the positional parameters as a simple command. The
// invocation words are never rendered into shell source.
const positionalCall = `"$@"`

// Execute runs the invocation as a single shell statement.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	inv := ctx.Invocation
	if inv.Program == "" {
		return NewErrorResult(ExitCodeNotFound, errors.New("no program to execute"))
	}

	prog, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(positionalCall), "lbrun")
	if err != nil {
		return NewErrorResult(ExitCodeFailure, fmt.Errorf("failed to parse command line: %w", err))
	}

	grace := ctx.interruptGrace()
	opts := []interp.RunnerOption{
		// "--" ends option parsing so a word starting with '-' stays a parameter.
		interp.Params(append([]string{"--"}, inv.Argv()...)...),
		interp.Env(expand.ListEnviron(ctx.environ()...)),
		interp.StdIO(ctx.IO.Stdin, ctx.IO.Stdout, ctx.IO.Stderr),
		interp.ExecHandlers(func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
			return interp.DefaultExecHandler(grace)
		}),
	}
	if ctx.WorkDir != "" {
		opts = append(opts, interp.Dir(ctx.WorkDir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(ExitCodeFailure, fmt.Errorf("failed to create interpreter: %w", err))
	}

	err = runner.Run(ctx.goContext(), prog)
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(ExitCode(exitStatus))
		}
		return NewErrorResult(ExitCodeFailure, fmt.Errorf("command execution failed: %w", err))
	}

	return NewSuccessResult()
}
