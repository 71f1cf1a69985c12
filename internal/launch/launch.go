// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Environment variables read by the launcher.
const (
	EnvLeaderboardRoot = "LEADERBOARD_ROOT"
	EnvScenarios       = "SCENARIOS"
	EnvRoutes          = "ROUTES"
	EnvRouteID         = "ROUTE_ID"
	EnvRepetitions     = "REPETITIONS"
	EnvTrack           = "CHALLENGE_TRACK_CODENAME"
	EnvCheckpoint      = "CHECKPOINT_ENDPOINT"
	EnvTeamAgent       = "TEAM_AGENT"
	EnvTeamConfig      = "TEAM_CONFIG"
	EnvDebug           = "DEBUG_CHALLENGE"
	EnvResume          = "RESUME"
)

const (
	// DefaultRecordDir is the --record value used when no override is configured.
	DefaultRecordDir = "/home/deniz/PycharmProjects/Masters-Project/records"
	// DefaultEvaluatorScript is the evaluator path relative to LEADERBOARD_ROOT.
	DefaultEvaluatorScript = "leaderboard/leaderboard_evaluator.py"

	// FlagRecord is the only evaluator flag not fed from the environment.
	FlagRecord = "record"
)

type (
	// LookupFunc resolves an environment variable. It has the signature of
	// os.LookupEnv so the real environment can be passed directly.
	LookupFunc func(key string) (string, bool)

	// Variable maps one evaluator flag to its source.
	// Env is empty for the constant --record flag.
	Variable struct {
		Env  string
		Flag string
	}

	// VariableState is a Variable resolved against an environment.
	VariableState struct {
		Variable
		Value string
		Set   bool
	}

	// Options tunes the parts of the invocation that do not come from the
	// environment. The zero value reproduces the default command line.
	Options struct {
		// RecordDir replaces DefaultRecordDir when non-empty.
		RecordDir string
		// EvaluatorScript replaces DefaultEvaluatorScript when non-empty.
		// Absolute paths are used as-is, ignoring LEADERBOARD_ROOT.
		EvaluatorScript string
	}

	// Invocation is a fully substituted evaluator command line.
	Invocation struct {
		Program string
		Args    []string
	}
)

// variables is the evaluator flag order. It must not be reordered.
var variables = []Variable{
	{Env: EnvScenarios, Flag: "scenarios"},
	{Env: EnvRoutes, Flag: "routes"},
	{Env: EnvRouteID, Flag: "route-id"},
	{Env: EnvRepetitions, Flag: "repetitions"},
	{Env: EnvTrack, Flag: "track"},
	{Env: EnvCheckpoint, Flag: "checkpoint"},
	{Env: EnvTeamAgent, Flag: "agent"},
	{Env: EnvTeamConfig, Flag: "agent-config"},
	{Env: EnvDebug, Flag: "debug"},
	{Flag: FlagRecord},
	{Env: EnvResume, Flag: "resume"},
}

// Variables returns the evaluator flags in invocation order.
func Variables() []Variable {
	return slices.Clone(variables)
}

// EnvNames returns every environment variable the launcher reads,
// LEADERBOARD_ROOT first.
func EnvNames() []string {
	names := []string{EnvLeaderboardRoot}
	for _, v := range variables {
		if v.Env != "" {
			names = append(names, v.Env)
		}
	}
	return names
}

// IsConstant reports whether the flag value is fixed rather than read from the environment.
func (v Variable) IsConstant() bool { return v.Env == "" }

// Token renders the --flag=value argument.
func (v Variable) Token(value string) string {
	return "--" + v.Flag + "=" + value
}

// recordDir returns the effective --record value.
func (o Options) recordDir() string {
	if o.RecordDir != "" {
		return o.RecordDir
	}
	return DefaultRecordDir
}

// evaluatorScript returns the effective evaluator path suffix.
func (o Options) evaluatorScript() string {
	if o.EvaluatorScript != "" {
		return o.EvaluatorScript
	}
	return DefaultEvaluatorScript
}

// Build substitutes the environment into the evaluator command line.
// Unset variables become empty values. A nil lookup reads the process
// environment.
func Build(lookup LookupFunc, opts Options) Invocation {
	get := valueOf(lookup)

	args := make([]string, 0, len(variables))
	for _, v := range variables {
		if v.IsConstant() {
			args = append(args, v.Token(opts.recordDir()))
			continue
		}
		args = append(args, v.Token(get(v.Env)))
	}

	return Invocation{
		Program: programPath(get(EnvLeaderboardRoot), opts.evaluatorScript()),
		Args:    args,
	}
}

// Snapshot reports the current value of every evaluator flag, in order,
// with LEADERBOARD_ROOT prepended under an empty flag name.
func Snapshot(lookup LookupFunc, opts Options) []VariableState {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	root, rootSet := lookup(EnvLeaderboardRoot)
	states := []VariableState{{Variable: Variable{Env: EnvLeaderboardRoot}, Value: root, Set: rootSet}}

	for _, v := range variables {
		if v.IsConstant() {
			states = append(states, VariableState{Variable: v, Value: opts.recordDir(), Set: true})
			continue
		}
		value, ok := lookup(v.Env)
		states = append(states, VariableState{Variable: v, Value: value, Set: ok})
	}
	return states
}

// Argv returns the program followed by its arguments.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Program}, inv.Args...)
}

// String renders the invocation as a single shell-quoted command line.
func (inv Invocation) String() string {
	words := inv.Argv()
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, " ")
}

// Quote shell-quotes a single word. Words without shell metacharacters are
// returned unchanged; '=' counts as a metacharacter. Non-printable bytes and
// invalid UTF-8 are rendered with bash $'...' escapes.
func Quote(word string) string {
	if q, err := syntax.Quote(word, syntax.LangPOSIX); err == nil {
		return q
	}
	if q, err := syntax.Quote(word, syntax.LangBash); err == nil {
		return q
	}
	// No shell can quote a NUL byte and no argv word can carry one.
	return Quote(strings.ReplaceAll(word, "\x00", ""))
}

// programPath joins the root and script the way the shell would expand
// "$LEADERBOARD_ROOT/leaderboard/...": an empty root yields an absolute path.
func programPath(root, script string) string {
	if filepath.IsAbs(script) {
		return script
	}
	return root + "/" + script
}

func valueOf(lookup LookupFunc) func(string) string {
	if lookup == nil {
		return os.Getenv
	}
	return func(key string) string {
		v, _ := lookup(key)
		return v
	}
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
