package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")

	if err := WriteFileAtomic(path, []byte("first\n"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second\n"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "second\n" {
		t.Errorf("content = %q, want %q", got, "second\n")
	}
}

func TestReplaceFile_WriterErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.txt")
	if err := os.WriteFile(path, []byte("keep me\n"), 0600); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := ReplaceFile(path, 0600, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ReplaceFile() error = %v, want wrapped boom", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "keep me\n" {
		t.Errorf("content = %q, want original", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries in dir", len(entries))
	}
}

func TestReplaceFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "todo.txt")
	if err := WriteFileAtomic(path, []byte("x"), 0600); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
