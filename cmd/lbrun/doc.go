// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for lbrun.
//
// The root command performs the launch: it reads the leaderboard environment
// variables, builds the evaluator command line and runs it, exiting with the
// evaluator's status. The config and vars subcommands inspect how a launch
// would be assembled without running anything.
package cmd
