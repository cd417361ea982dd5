package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"skillbox/internal/config"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// isolateCLI points HOME and the working directory at temp dirs and clears
// every credential variable so only the test's config is seen.
func isolateCLI(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"ASSEMBLYAI_API_KEY", "GEMINI_API_KEY", "IMAGE_GATEWAY_API_KEY", "SPOTIFY_AI_GATEWAY_KEY",
		"IMAGE_GATEWAY_BASE_URL", "RESEND_API_KEY", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_BUCKET", "S3_REGION",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
	return home
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	code := reportError(&stderr, err)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// requireSingleComponent fails when any JSON log line carries the component
// key more than once.
func requireSingleComponent(t *testing.T, logPath string) {
	t.Helper()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("log file is empty")
	}
	for _, line := range lines {
		if n := strings.Count(line, `"component":`); n != 1 {
			t.Fatalf("log line has %d component keys: %s", n, line)
		}
	}
}
