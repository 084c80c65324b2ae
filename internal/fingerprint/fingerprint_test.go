package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromFile_MatchesContentHash(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(p, []byte("some audio bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := FromFile(p)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if want := FromString("some audio bytes"); got != want {
		t.Fatalf("file hash %s != content hash %s", got, want)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(got))
	}
}

func TestFromFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := FromFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
