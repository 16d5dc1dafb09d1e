package storage

import (
	"story/internal/config"
	"story/internal/domain"
)

// Storage persists and loads the last finished run (e.g. for the list and view commands).
type Storage interface {
	Save(run domain.Run) error
	Load() (*domain.Run, error)
}

// DocumentWriter persists a rendered report
type DocumentWriter interface {
	WriteDocument(path, contents string) error
}

// JSONStorage stores the run snapshot in a JSON file under the configured snapshot path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's snapshot path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
