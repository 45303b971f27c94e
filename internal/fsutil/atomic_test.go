package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicCreatesWithPerm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	if err := WriteFileAtomic(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := st.Mode().Perm(); got != 0o644 {
		t.Fatalf("expected 0644, got %o", got)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != `{}` {
		t.Fatalf("unexpected content %q", raw)
	}
}

func TestWriteFileAtomicKeepsExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used_articles.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o664); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o664); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte(`["a"]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, _ := os.Stat(path)
	if got := st.Mode().Perm(); got != 0o664 {
		t.Fatalf("existing mode must survive a rewrite, got %o", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}
