package history

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFileAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "used_articles.json")
	h := NewFile(path)

	for _, title := range []string{"a", "b", "a"} {
		if err := h.Append(ctx, title); err != nil {
			t.Fatalf("append %q: %v", title, err)
		}
	}
	got, err := h.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected history %v", got)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "\n    \"a\"") {
		t.Fatalf("expected 4-space indentation, got %s", raw)
	}

	// a fresh handle sees what the first one wrote
	again, _ := NewFile(path).Load(ctx)
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("expected persisted history %v, got %v", got, again)
	}
}

func TestFileMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	missing, err := NewFile(filepath.Join(dir, "nope.json")).Load(ctx)
	if err != nil || len(missing) != 0 {
		t.Fatalf("missing file: got %v err=%v", missing, err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte(`{"oops":`), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewFile(corrupt)
	got, err := h.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("corrupt file: got %v err=%v", got, err)
	}
	if err := h.Append(ctx, "fresh"); err != nil {
		t.Fatalf("append over corrupt file: %v", err)
	}
	got, _ = h.Load(ctx)
	if !reflect.DeepEqual(got, []string{"fresh"}) {
		t.Fatalf("expected corrupt file to be replaced, got %v", got)
	}
}

func TestMemoryAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("x", "x", "y")
	_ = m.Append(ctx, "y")
	got, _ := m.Load(ctx)
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("unexpected history %v", got)
	}
}

func TestFileAppendKeepsReadablePermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "used_articles.json")
	if err := os.WriteFile(path, []byte(`["a"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewFile(path).Append(ctx, "b"); err != nil {
		t.Fatalf("append: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := st.Mode().Perm(); got != 0o644 {
		t.Fatalf("append changed file mode to %o", got)
	}
}
