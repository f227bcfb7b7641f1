package dedup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashBytesStable(t *testing.T) {
	a := HashBytes([]byte("same content"))
	b := HashBytes([]byte("same content"))
	if a != b {
		t.Errorf("identical content hashed differently: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHashBytesDiffers(t *testing.T) {
	if HashBytes([]byte("one")) == HashBytes([]byte("two")) {
		t.Error("different content produced the same hash")
	}
}

func TestHashFileMatchesHashBytes(t *testing.T) {
	content := []byte("file body for hashing")
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	fromFile, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if fromFile != HashBytes(content) {
		t.Error("HashFile and HashBytes disagree on the same content")
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
