package hashcommit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCreatesNewFile(t *testing.T) {
	t.Parallel()
	dest := filepath.Join(t.TempDir(), "out.bin")

	res, err := Write(dest, []byte("hello"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !res.Changed {
		t.Fatal("Changed = false, want true for a new file")
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("content = %q, want %q", got, "hello")
	}
}

func TestWriteSkipsUnchangedContent(t *testing.T) {
	t.Parallel()
	dest := filepath.Join(t.TempDir(), "out.bin")

	if _, err := Write(dest, []byte("same")); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	info1, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	res, err := Write(dest, []byte("same"))
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if res.Changed {
		t.Fatal("Changed = true, want false for identical content")
	}
	info2, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info1.ModTime() != info2.ModTime() {
		t.Fatal("mtime changed despite identical content")
	}
}

func TestWriteReplacesChangedContent(t *testing.T) {
	t.Parallel()
	dest := filepath.Join(t.TempDir(), "out.bin")

	if _, err := Write(dest, []byte("v1")); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	res, err := Write(dest, []byte("v2"))
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if !res.Changed {
		t.Fatal("Changed = false, want true when content differs")
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "v2" {
		t.Fatalf("content = %q, want %q", got, "v2")
	}
}

func TestHashBytesDeterministic(t *testing.T) {
	t.Parallel()
	if HashBytes([]byte("abc")) != HashBytes([]byte("abc")) {
		t.Fatal("HashBytes not deterministic")
	}
	if HashBytes([]byte("abc")) == HashBytes([]byte("abd")) {
		t.Fatal("HashBytes collided on different input (unexpected)")
	}
}
