// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/dnzggg/leaderboard/cmd/lbrun"

func main() {
	cmd.Execute()
}
