package watermarkstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/watermarkstore"
	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// exerciseStore runs the behavior every backend shares.
func exerciseStore(t *testing.T, store ports.WatermarkStore) {
	t.Helper()
	ctx := t.Context()

	exists, err := store.Exists(ctx, "wm", "jobs/rollup")
	if err != nil || exists {
		t.Fatalf("Exists(missing) = (%v, %v), want (false, nil)", exists, err)
	}

	if _, err := store.Read(ctx, "wm", "jobs/rollup"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Write(ctx, "wm", "jobs/rollup", "2024-03-01T10:00:00.0000000Z"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	exists, err = store.Exists(ctx, "wm", "jobs/rollup")
	if err != nil || !exists {
		t.Fatalf("Exists() after write = (%v, %v), want (true, nil)", exists, err)
	}

	got, err := store.Read(ctx, "wm", "jobs/rollup")
	if err != nil || got != "2024-03-01T10:00:00.0000000Z" {
		t.Fatalf("Read() = (%q, %v)", got, err)
	}

	if err := store.Write(ctx, "wm", "jobs/rollup", "2024-03-01T10:05:00.0000000Z"); err != nil {
		t.Fatalf("overwrite error = %v", err)
	}
	if got, _ := store.Read(ctx, "wm", "jobs/rollup"); got != "2024-03-01T10:05:00.0000000Z" {
		t.Errorf("Read() after overwrite = %q, want replaced contents", got)
	}

	if exists, _ := store.Exists(ctx, "other", "jobs/rollup"); exists {
		t.Error("record visible in a different container")
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()
	exerciseStore(t, watermarkstore.NewMemory())
}

func TestFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exerciseStore(t, watermarkstore.NewFile(root))

	data, err := os.ReadFile(filepath.Join(root, "wm", "jobs", "rollup"))
	if err != nil {
		t.Fatalf("reading record file: %v", err)
	}
	if string(data) != "2024-03-01T10:05:00.0000000Z" {
		t.Errorf("file contents = %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "wm", "jobs"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no leftover temp files)", len(entries))
	}
}

func TestFile_DirectoryIsNotARecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "wm", "jobs"), 0o755); err != nil {
		t.Fatal(err)
	}

	exists, err := watermarkstore.NewFile(root).Exists(t.Context(), "wm", "jobs")
	if err != nil || exists {
		t.Errorf("Exists(directory) = (%v, %v), want (false, nil)", exists, err)
	}
}

func TestFile_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := watermarkstore.NewFile(t.TempDir()).Write(ctx, "wm", "k", "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
}

func TestInvalidReferences(t *testing.T) {
	t.Parallel()

	stores := map[string]ports.WatermarkStore{
		"memory": watermarkstore.NewMemory(),
		"file":   watermarkstore.NewFile(t.TempDir()),
	}
	refs := []struct{ container, key string }{
		{"", "k"},
		{"wm", ""},
		{"a/b", "k"},
		{"..", "k"},
		{"wm", "../escape"},
		{"wm", "/abs"},
		{"wm", "a/../b"},
	}

	for name, store := range stores {
		for _, ref := range refs {
			if err := store.Write(t.Context(), ref.container, ref.key, "x"); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%s: Write(%q, %q) error = %v, want ErrInvalidArgument", name, ref.container, ref.key, err)
			}
			if _, err := store.Exists(t.Context(), ref.container, ref.key); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%s: Exists(%q, %q) error = %v, want ErrInvalidArgument", name, ref.container, ref.key, err)
			}
		}
	}
}
