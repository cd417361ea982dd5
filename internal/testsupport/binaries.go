package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// StubBinaries writes one shell script per entry into a fresh bin directory
// and prepends it to PATH for the duration of the test. An empty script
// becomes "exit 0". The bin directory is returned.
func StubBinaries(t testing.TB, scripts map[string]string) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, body := range scripts {
		if body == "" {
			body = "exit 0"
		}
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	SetPath(t, binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return binDir
}

// SetPath replaces PATH for the test and restores it afterwards.
func SetPath(t testing.TB, value string) {
	t.Helper()

	oldPath, had := os.LookupEnv("PATH")
	if err := os.Setenv("PATH", value); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv("PATH", oldPath)
			return
		}
		_ = os.Unsetenv("PATH")
	})
}
