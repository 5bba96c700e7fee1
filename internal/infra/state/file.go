// Package state persists the sent-reminder log between runs, either as a
// JSON file on disk or as a Redis hash.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the sent-log file. A missing or unreadable file yields an empty
// log rather than an error: a broken state file must never block reminders,
// at worst a reminder is repeated.
func (s *FileStore) Load(ctx context.Context) (domain.SentLog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "sent-log file unreadable, starting with empty log",
				slog.String("path", s.path),
				slog.String("error", err.Error()))
		}
		return domain.SentLog{}, nil
	}

	var log domain.SentLog
	if err := json.Unmarshal(data, &log); err != nil {
		slog.WarnContext(ctx, "sent-log file corrupt, starting with empty log",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return domain.SentLog{}, nil
	}
	if log == nil {
		log = domain.SentLog{}
	}

	return log, nil
}

// Save writes the sent log atomically: marshal to a sibling temp file, then
// rename over the target so readers never observe a partial write.
func (s *FileStore) Save(ctx context.Context, log domain.SentLog) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sent log: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write sent log: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace sent log: %w", err)
	}

	return nil
}
