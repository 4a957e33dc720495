package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"agentflow/internal/testsupport"
)

// runCLI executes the root command against baseURL with an isolated HOME and a
// config path that does not exist, so defaults apply.
func runCLI(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	flags := []string{"--log-level", "error"}
	if baseURL != "" {
		flags = append(flags, "--api-url", baseURL)
	}
	return runCLIWithConfig(t, "", append(flags, args...)...)
}

// runCLIWithConfig runs the root command with --config set to configPath, or
// to a missing file when configPath is empty.
func runCLIWithConfig(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AGENTFLOW_API_URL", "")
	if configPath == "" {
		configPath = filepath.Join(home, "missing.toml")
	}

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func newFakeBackend(t *testing.T) *testsupport.FakeEditor {
	t.Helper()
	return testsupport.NewFakeEditor(t)
}
