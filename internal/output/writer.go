package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dociq/internal/domain"
	"dociq/internal/schema"
)

// FileWriter persists records as JSON files in a directory. Writing the
// same name again replaces the previous file.
type FileWriter struct {
	dir      string
	registry *schema.Registry
}

// NewFileWriter creates a writer rooted at dir, creating it if needed.
func NewFileWriter(dir string, registry *schema.Registry) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return &FileWriter{dir: dir, registry: registry}, nil
}

func (w *FileWriter) Write(ctx context.Context, name string, docType domain.DocumentType, record domain.FieldMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeRecord(record, OrderFor(w.registry, docType))
	if err != nil {
		return err
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
