package storage

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// FileWriter writes rendered reports to the local file system. Existing files
// are overwritten; missing parent directories are an error.
type FileWriter struct{}

// NewFileWriter creates a new FileWriter
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// WriteDocument writes contents to path as UTF-8
func (w *FileWriter) WriteDocument(path, contents string) error {
	if !utf8.ValidString(contents) {
		contents = strings.ToValidUTF8(contents, "\uFFFD")
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
