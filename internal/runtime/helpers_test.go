// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dnzggg/leaderboard/internal/launch"
)

// writeEvaluator creates an executable /bin/sh script under a fake
// LEADERBOARD_ROOT and returns the root.
func writeEvaluator(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping: evaluator stubs are POSIX shell scripts")
	}

	root := t.TempDir()
	script := filepath.Join(root, filepath.FromSlash(launch.DefaultEvaluatorScript))
	if err := os.MkdirAll(filepath.Dir(script), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write evaluator: %v", err)
	}
	return root
}

// newTestContext builds an execution context for root with captured output.
func newTestContext(t *testing.T, root string, env map[string]string) (*ExecutionContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	lookupEnv := map[string]string{launch.EnvLeaderboardRoot: root}
	for k, v := range env {
		lookupEnv[k] = v
	}

	var stdout, stderr bytes.Buffer
	ctx := &ExecutionContext{
		Context:    context.Background(),
		Invocation: launch.Build(launch.MapLookup(lookupEnv), launch.Options{}),
		IO: IOContext{
			Stdin:  strings.NewReader(""),
			Stdout: &stdout,
			Stderr: &stderr,
		},
		Env:            map[string]string{"PATH": os.Getenv("PATH")},
		InterruptGrace: 5 * time.Second,
	}
	return ctx, &stdout, &stderr
}

// waitForFile polls until path exists or the deadline passes.
func waitForFile(t *testing.T, path string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", path)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
