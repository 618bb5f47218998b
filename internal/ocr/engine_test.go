package ocr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dociq/internal/domain"
)

func TestEngine_ExtractText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt.txt")
	require.NoError(t, os.WriteFile(path, []byte("  WALMART\nMilk 3.99\n"), 0o644))

	text, err := NewEngine(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "WALMART\nMilk 3.99", text)
}

func TestEngine_UnsupportedExtension(t *testing.T) {
	_, err := NewEngine(nil).Extract(context.Background(), "/in/report.docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestEngine_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n\t"), 0o644))

	_, err := NewEngine(nil).Extract(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrNoTextExtracted)
}

func TestEngine_MissingFile(t *testing.T) {
	_, err := NewEngine(nil).Extract(context.Background(), "/no/such/file.txt")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(nil).Extract(ctx, "/in/scan.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
