// SPDX-License-Identifier: MPL-2.0

// Package launch builds the leaderboard evaluator invocation from the
// process environment.
//
// The evaluator receives a fixed, ordered set of eleven --flag=value tokens.
// Ten of them are taken verbatim from environment variables; the --record
// value is a constant that only configuration can change. Unset variables
// produce empty values and are never reported as errors.
package launch
