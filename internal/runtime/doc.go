// SPDX-License-Identifier: MPL-2.0

// Package runtime runs an evaluator invocation as a child process.
//
// Two runtime implementations are available:
//   - native: executes the program directly with os/exec
//   - virtual: executes the program through an embedded POSIX shell interpreter (mvdan/sh)
//
// Both inherit the caller's standard streams and report the child's exit
// status using shell conventions: the child's own code when it exits,
// 128+N when it dies from signal N, 127 when the program cannot be found and
// 126 when it cannot be executed.
//
// Env files are parsed with the same shell grammar; see LoadEnvFile.
package runtime
