package docsource

import (
	"context"
	"fmt"
	"os"
)

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read schedule document: %w", err)
	}
	return string(data), nil
}
