// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
	"time"

	"github.com/dnzggg/leaderboard/internal/issue"
	"github.com/dnzggg/leaderboard/internal/launch"
	"github.com/dnzggg/leaderboard/internal/runtime"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Runtime != runtime.RuntimeTypeNative {
		t.Errorf("expected default runtime to be native, got %s", cfg.Runtime)
	}
	if cfg.RecordDir != launch.DefaultRecordDir {
		t.Errorf("expected default record dir %q, got %q", launch.DefaultRecordDir, cfg.RecordDir)
	}
	if cfg.EvaluatorScript != launch.DefaultEvaluatorScript {
		t.Errorf("expected default evaluator script %q, got %q", launch.DefaultEvaluatorScript, cfg.EvaluatorScript)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
	if d, _ := cfg.Grace(); d != 10*time.Second {
		t.Errorf("default grace = %v, want 10s", d)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if goruntime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/custom/dir")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, want /custom/dir", dir)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want defaults", path)
	}
	if cfg.RecordDir != launch.DefaultRecordDir {
		t.Errorf("RecordDir = %q, want default", cfg.RecordDir)
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
runtime: "virtual"
record_dir: "/data/records"
interrupt_grace: "1m30s"
env_files: ["leaderboard.env", "local.env?"]
ui: verbose: true
`)

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Runtime != runtime.RuntimeTypeVirtual {
		t.Errorf("Runtime = %q, want virtual", cfg.Runtime)
	}
	if cfg.RecordDir != "/data/records" {
		t.Errorf("RecordDir = %q, want /data/records", cfg.RecordDir)
	}
	if cfg.EvaluatorScript != launch.DefaultEvaluatorScript {
		t.Errorf("EvaluatorScript = %q, want default", cfg.EvaluatorScript)
	}
	if d, _ := cfg.Grace(); d != 90*time.Second {
		t.Errorf("Grace() = %v, want 1m30s", d)
	}
	if len(cfg.EnvFiles) != 2 || cfg.EnvFiles[1] != "local.env?" {
		t.Errorf("EnvFiles = %v", cfg.EnvFiles)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}

	opts := cfg.LaunchOptions()
	if opts.RecordDir != "/data/records" {
		t.Errorf("LaunchOptions().RecordDir = %q", opts.RecordDir)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(`runtime: "virtual"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Runtime != runtime.RuntimeTypeVirtual {
		t.Errorf("Runtime = %q, want virtual", cfg.Runtime)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{name: "syntax error", content: `runtime: "native`, wantIn: "load configuration"},
		{name: "unknown runtime", content: `runtime: "container"`, wantIn: "runtime"},
		{name: "unknown field", content: `record: "/x"`, wantIn: "record"},
		{name: "empty record dir", content: `record_dir: ""`, wantIn: "record_dir"},
		{name: "wrong type", content: `ui: verbose: "yes"`, wantIn: "verbose"},
		{name: "bad duration", content: `interrupt_grace: "10 seconds"`, wantIn: "interrupt grace"},
		{name: "zero duration", content: `interrupt_grace: "0s"`, wantIn: "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.content)
			_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected error")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Errorf("error is %T, want *issue.ActionableError", err)
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantIn)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: "/nonexistent/config.cue"})
	if err == nil {
		t.Fatal("expected error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
		t.Errorf("expected actionable error with suggestions, got %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Runtime = "container"
	cfg.InterruptGrace = "-1s"

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected two field errors, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Runtime = runtime.RuntimeTypeVirtual
	want.RecordDir = `/data/with "quotes"`
	want.EnvFiles = []string{"a.env", "b.env?"}
	want.UI.Verbose = true

	path := writeConfig(t, GenerateCUE(want))
	got, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("generated config does not load: %v\n%s", err, GenerateCUE(want))
	}

	if got.Runtime != want.Runtime || got.RecordDir != want.RecordDir || !got.UI.Verbose {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if len(got.EnvFiles) != 2 || got.EnvFiles[1] != "b.env?" {
		t.Errorf("EnvFiles = %v", got.EnvFiles)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Cleanup(Reset)
	dir := t.TempDir()
	SetConfigDirOverride(dir)

	path, created, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if !created || path != filepath.Join(dir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = %q, %v", path, created)
	}

	_, created, err = CreateDefaultConfig()
	if err != nil || created {
		t.Errorf("second CreateDefaultConfig() = created %v, err %v; want existing file kept", created, err)
	}
}

func TestMarshalTOML(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.EnvFiles = []string{"leaderboard.env"}

	data, err := MarshalTOML(cfg)
	if err != nil {
		t.Fatalf("MarshalTOML() error: %v", err)
	}

	var decoded Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid TOML: %v\n%s", err, data)
	}
	if decoded.RecordDir != cfg.RecordDir || decoded.Runtime != cfg.Runtime || decoded.EnvFiles[0] != "leaderboard.env" {
		t.Errorf("decoded = %+v, want %+v", decoded, cfg)
	}
	if !strings.Contains(string(data), "[ui]") {
		t.Errorf("expected a [ui] table:\n%s", data)
	}
}
