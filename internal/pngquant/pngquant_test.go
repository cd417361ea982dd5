package pngquant

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skillbox/internal/logging"
	"skillbox/internal/testsupport"
)

const shrinkScript = `out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf 'small' > "$out"`

func TestCompressDisabled(t *testing.T) {
	c := New(Options{Enabled: false}, logging.NewNop())
	result, err := c.Compress(context.Background(), "/does/not/matter.png")
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if result.Applied || result.Skipped != SkipDisabled {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCompressMissingBinary(t *testing.T) {
	testsupport.SetPath(t, t.TempDir())
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "big.png"), 2*bytesPerMB)

	c := New(Options{Enabled: true, MaxSizeMB: 1}, logging.NewNop())
	result, err := c.Compress(context.Background(), path)
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if result.Skipped != SkipMissing {
		t.Fatalf("expected missing-binary skip, got %+v", result)
	}
}

func TestCompressUnderLimit(t *testing.T) {
	testsupport.StubBinaries(t, map[string]string{"pngquant": "exit 99"})
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "small.png"), 1024)

	c := New(Options{Enabled: true}, logging.NewNop())
	result, err := c.Compress(context.Background(), path)
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if result.Applied || result.Skipped != SkipUnderLimit || result.Before != 1024 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCompressAppliesPngquant(t *testing.T) {
	binDir := testsupport.StubBinaries(t, map[string]string{
		"pngquant": `echo "$@" > "$(dirname "$0")/args"` + "\n" + shrinkScript,
	})
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "big.png"), 2*bytesPerMB)

	c := New(Options{Enabled: true, MaxSizeMB: 1, QualityMin: 50, QualityMax: 80}, logging.NewNop())
	result, err := c.Compress(context.Background(), path)
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if !result.Applied || result.Before != 2*bytesPerMB || result.After != int64(len("small")) {
		t.Fatalf("unexpected result %+v", result)
	}

	args, err := os.ReadFile(filepath.Join(binDir, "args"))
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	want := "--quality=50-80 --force --output " + path + " " + path
	if strings.TrimSpace(string(args)) != want {
		t.Fatalf("pngquant args = %q, want %q", strings.TrimSpace(string(args)), want)
	}
}

func TestCompressToolFailureIsWarning(t *testing.T) {
	testsupport.StubBinaries(t, map[string]string{"pngquant": "echo 'quality too low' >&2\nexit 99"})
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "big.png"), 2*bytesPerMB)

	c := New(Options{Enabled: true, MaxSizeMB: 1}, logging.NewNop())
	result, err := c.Compress(context.Background(), path)
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if result.Applied || result.Skipped != SkipToolFailed || result.Warning != "quality too low" {
		t.Fatalf("unexpected result %+v", result)
	}
	size, _ := os.Stat(path)
	if size.Size() != 2*bytesPerMB {
		t.Fatalf("file should be untouched after failure, size %d", size.Size())
	}
}

func TestArgsUsesDefaultQuality(t *testing.T) {
	c := New(Options{Enabled: true}, nil)
	got := strings.Join(c.Args("a.png"), " ")
	if got != "--quality=65-95 --force --output a.png a.png" {
		t.Fatalf("unexpected args %q", got)
	}
}
