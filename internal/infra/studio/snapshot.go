package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// SnapshotStore keeps the trimmed event list on disk between refreshes.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads the snapshot. Missing files surface as fs.ErrNotExist so
// callers can distinguish "never refreshed" from a corrupt file.
func (s *SnapshotStore) Load(_ context.Context) ([]domain.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read events snapshot: %w", err)
	}

	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode events snapshot: %w", err)
	}

	return recordsToDomain(records), nil
}

// Save replaces the snapshot atomically via a sibling temp file.
func (s *SnapshotStore) Save(_ context.Context, events []domain.Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	records := recordsFromDomain(events)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode events snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write events snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace events snapshot: %w", err)
	}

	return nil
}
