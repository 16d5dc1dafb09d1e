package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"story/internal/domain"
)

// Save writes the run to the configured snapshot file.
func (s *JSONStorage) Save(run domain.Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	path := s.cfg.GetSnapshotPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the last run from the configured snapshot file.
func (s *JSONStorage) Load() (*domain.Run, error) {
	path := s.cfg.GetSnapshotPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &run, nil
}

// Complete saves the finished run so it can be listed and viewed later.
func (s *JSONStorage) Complete(run domain.Run) error {
	return s.Save(run)
}
