package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deeper", "out.txt")

	if err := WriteFileAtomic(target, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(target, []byte("old contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(target, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSuffixedPath(t *testing.T) {
	cases := []struct {
		path string
		n    int
		want string
	}{
		{"out/cat.png", 1, "out/cat.png"},
		{"out/cat.png", 2, "out/cat-2.png"},
		{"cat", 3, "cat-3"},
		{"a.b/cat.final.png", 4, "a.b/cat.final-4.png"},
	}
	for _, tc := range cases {
		if got := SuffixedPath(tc.path, tc.n); got != tc.want {
			t.Fatalf("SuffixedPath(%q, %d) = %q, want %q", tc.path, tc.n, got, tc.want)
		}
	}
}

func TestFileSize(t *testing.T) {
	target := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(target, make([]byte, 1234), 0o644); err != nil {
		t.Fatal(err)
	}
	size, err := FileSize(target)
	if err != nil {
		t.Fatal(err)
	}
	if size != 1234 {
		t.Fatalf("size = %d, want 1234", size)
	}
}
