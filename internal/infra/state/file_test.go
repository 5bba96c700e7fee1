package state

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json"))

	log, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("expected empty log, got %d classes", len(log))
	}
	if log == nil {
		t.Error("expected usable empty log, got nil")
	}
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	store := NewFileStore(path)
	log, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("expected corrupt file to be tolerated, got error: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("expected empty log, got %d classes", len(log))
	}
}

func TestFileStoreSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	sentAt := time.Date(2026, time.January, 14, 8, 5, 0, 0, time.UTC)
	log := domain.SentLog{}
	log.MarkSent("2026-01-15::Rooted & Rising", 24, sentAt)
	log.MarkSent("2026-01-15::Rooted & Rising", 26, sentAt)
	log.MarkSent("2026-01-17::Class", 25, sentAt)

	if err := store.Save(ctx, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewFileStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(reloaded, log) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", reloaded, log)
	}
}

func TestFileStoreSaveCreatesParentDirectories(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "deep", "state.json")
	store := NewFileStore(path)

	log := domain.SentLog{}
	log.MarkSent("2026-01-15::Class", 24, time.Now())

	if err := store.Save(ctx, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected state file to exist: %v", err)
	}
}

func TestFileStoreSaveLeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	store := NewFileStore(path)

	log := domain.SentLog{}
	log.MarkSent("2026-01-15::Class", 24, time.Now())
	if err := store.Save(ctx, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", entry.Name())
		}
	}
}

func TestFileStoreSaveSortsAndIndents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	sentAt := time.Date(2026, time.January, 14, 8, 5, 0, 0, time.UTC)
	log := domain.SentLog{}
	log.MarkSent("2026-01-17::Later", 24, sentAt)
	log.MarkSent("2026-01-15::Earlier", 24, sentAt)

	if err := store.Save(ctx, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state file: %v", err)
	}
	text := string(data)

	earlier := strings.Index(text, "2026-01-15::Earlier")
	later := strings.Index(text, "2026-01-17::Later")
	if earlier < 0 || later < 0 {
		t.Fatalf("state file missing class keys:\n%s", text)
	}
	if earlier > later {
		t.Error("expected class keys in sorted order")
	}
	if !strings.Contains(text, "\n  \"") {
		t.Error("expected two-space indentation")
	}
}

func TestFileStoreSaveOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	sentAt := time.Date(2026, time.January, 14, 8, 5, 0, 0, time.UTC)
	log := domain.SentLog{}
	log.MarkSent("2026-01-15::Class", 24, sentAt)
	if err := store.Save(ctx, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.MarkSent("2026-01-15::Class", 26, sentAt)
	if err := store.Save(ctx, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Size() != 2 {
		t.Errorf("expected 2 deliveries after second save, got %d", reloaded.Size())
	}
	if !reloaded.Sent("2026-01-15::Class", 24) || !reloaded.Sent("2026-01-15::Class", 26) {
		t.Error("expected both offsets recorded")
	}
}
