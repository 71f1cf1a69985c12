// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/dnzggg/leaderboard/internal/config"
	"github.com/dnzggg/leaderboard/internal/launch"
)

type (
	// staticConfig is a ConfigProvider returning a fixed configuration.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// testCLI is a root command wired to captured streams.
	testCLI struct {
		app    *App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

// newTestCLI builds an App whose host environment is exactly env.
func newTestCLI(env map[string]string, provider ConfigProvider) *testCLI {
	if provider == nil {
		provider = staticConfig{cfg: config.DefaultConfig()}
	}

	environ := []string{"PATH=" + os.Getenv("PATH")}
	for k, v := range env {
		environ = append(environ, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config:  provider,
		Environ: func() []string { return environ },
		Stdin:   strings.NewReader(""),
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	return &testCLI{app: app, stdout: &stdout, stderr: &stderr}
}

// run executes the command tree with args and returns the command error.
func (c *testCLI) run(t *testing.T, args ...string) error {
	t.Helper()

	root := NewRootCommand(c.app)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// writeEvaluator creates an executable /bin/sh evaluator stub under a fake
// LEADERBOARD_ROOT and returns the root.
func writeEvaluator(t *testing.T, body string) string {
	t.Helper()

	if goruntime.GOOS == "windows" {
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

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
