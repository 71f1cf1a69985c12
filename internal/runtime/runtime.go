// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/dnzggg/leaderboard/internal/launch"

	"github.com/google/uuid"
)

// Runtime type constants for different execution environments.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"

	// DefaultInterruptGrace is how long an interrupted child may take to exit
	// before it is killed.
	DefaultInterruptGrace = 10 * time.Second
)

type (
	// IOContext holds the streams handed to the child.
	IOContext struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExecutionContext contains all information needed to run the evaluator.
	ExecutionContext struct {
		// Context is the Go context. Cancelling it interrupts the child.
		Context context.Context
		// Invocation is the program and arguments to run.
		Invocation launch.Invocation
		// IO is the set of streams the child inherits.
		IO IOContext
		// Env is the complete child environment. Nil inherits the launcher's environment.
		Env map[string]string
		// WorkDir overrides the working directory. Empty means the current directory.
		WorkDir string
		// ExecutionID identifies this launch in logs.
		ExecutionID string
		// InterruptGrace bounds how long an interrupted child may run before being killed.
		InterruptGrace time.Duration
	}

	// Result contains the outcome of one execution.
	Result struct {
		// ExitCode is the code the launcher should exit with.
		ExitCode ExitCode
		// Error is set when the child could not be run at all.
		Error error
	}

	// Runtime defines the interface for running an invocation.
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Execute runs the invocation and blocks until it finishes
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is available on the current system
		Available() bool
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// NewExecutionContext creates an execution context that inherits the
// process's standard streams and environment.
func NewExecutionContext(ctx context.Context, inv launch.Invocation) *ExecutionContext {
	return &ExecutionContext{
		Context:    ctx,
		Invocation: inv,
		IO: IOContext{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
		ExecutionID:    uuid.NewString(),
		InterruptGrace: DefaultInterruptGrace,
	}
}

// goContext returns the Go context, defaulting to Background.
func (c *ExecutionContext) goContext() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// environ returns the child environment as KEY=VALUE pairs.
func (c *ExecutionContext) environ() []string {
	if c.Env == nil {
		return os.Environ()
	}
	return EnvToSlice(c.Env)
}

// interruptGrace returns the effective grace period.
func (c *ExecutionContext) interruptGrace() time.Duration {
	if c.InterruptGrace <= 0 {
		return DefaultInterruptGrace
	}
	return c.InterruptGrace
}

// IsValid reports whether the runtime type is one of the known types.
func (t RuntimeType) IsValid() bool {
	return t == RuntimeTypeNative || t == RuntimeTypeVirtual
}

// NewRegistry creates a new runtime registry
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// NewDefaultRegistry creates a registry with the native and virtual runtimes.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RuntimeTypeNative, NewNativeRuntime())
	r.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	return r
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// Available returns all available runtimes, sorted by name.
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	slices.Sort(types)
	return types
}

// Execute runs the invocation with the runtime registered under typ.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(ExitCodeFailure, err)
	}

	if !rt.Available() {
		return NewErrorResult(ExitCodeFailure, fmt.Errorf("runtime '%s' is not available on this system", rt.Name()))
	}

	return rt.Execute(ctx)
}
