package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rack.adg")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFileVerified(src, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Data) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got.Data, content)
	}
	if got.Size != int64(len(content)) {
		t.Fatalf("size = %d, want %d", got.Size, len(content))
	}
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got.SHA256 != want {
		t.Fatalf("sha256 = %s, want %s", got.SHA256, want)
	}
	if HashBytes(content) != want {
		t.Fatalf("HashBytes disagrees with streamed hash")
	}
}

func TestReadFileVerified_TooLarge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.als")
	if err := os.WriteFile(src, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadFileVerified(src, 63)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	if _, err := ReadFileVerified(src, 0); err != nil {
		t.Fatalf("limit 0 should disable the check: %v", err)
	}
}

func TestReadFileVerified_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadFileVerified(filepath.Join(dir, "nope"), 0); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestReadFileVerified_Directory(t *testing.T) {
	if _, err := ReadFileVerified(t.TempDir(), 0); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "out.json")

	if err := WriteFileAtomic(dst, []byte("first"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(dst, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content mismatch: got %q", got)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o644 != 0o644 {
		t.Fatalf("unexpected mode %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}
