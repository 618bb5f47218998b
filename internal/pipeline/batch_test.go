package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dociq/internal/domain"
	"dociq/internal/ocr"
	"dociq/internal/output"
	"dociq/internal/pipeline"
	"dociq/internal/schema"
	"dociq/mocks"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBatch_Run(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeFixture(t, inputDir, "a_receipt.txt", receiptText)
	writeFixture(t, inputDir, "b_unreadable.txt", "   ")
	writeFixture(t, inputDir, "notes.docx", "not a supported format")

	registry := schema.NewRegistry()
	writer, err := output.NewFileWriter(outputDir, registry)
	require.NoError(t, err)

	runner := pipeline.NewRunner(ocr.NewEngine(nil), pipeline.NewCascade(new(mocks.MockModelExtractor), 0, 0),
		schema.NewValidator(registry), writer)

	summary, outcomes, err := pipeline.NewBatch(runner, 2).Run(context.Background(), inputDir, domain.DocTypeReceipt)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.FallbackUsed)

	// Outcomes keep the sorted file order.
	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.FileStateWritten, outcomes[0].State)
	assert.Equal(t, domain.FileStateFailed, outcomes[1].State)
	assert.NotEmpty(t, outcomes[1].Error)
	assert.Equal(t, domain.FileStateSkipped, outcomes[2].State)

	// The successful file produced a JSON record.
	_, err = os.Stat(filepath.Join(outputDir, "a_receipt.json"))
	assert.NoError(t, err)
}

func TestBatch_RunCountsFallback(t *testing.T) {
	inputDir := t.TempDir()
	writeFixture(t, inputDir, "cv.txt", "jane.doe@example.com\n+1 555 123 4567\n\nJane Doe")

	model := new(mocks.MockModelExtractor)
	model.On("Extract", mock.Anything, mock.Anything, domain.DocTypeResume).
		Return(domain.FieldMap{
			"FullName": "Jane Doe",
			"Skills":   []interface{}{"Go"},
		}, nil)

	writer := new(mocks.MockResultWriter)
	writer.On("Write", mock.Anything, "cv.json", domain.DocTypeResume, mock.Anything).Return(nil)

	runner := pipeline.NewRunner(ocr.NewEngine(nil), pipeline.NewCascade(model, 0, 0),
		schema.NewValidator(schema.NewRegistry()), writer)

	summary, _, err := pipeline.NewBatch(runner, 1).Run(context.Background(), inputDir, domain.DocTypeResume)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 1, summary.FallbackUsed)
}

func TestBatch_RunMissingDir(t *testing.T) {
	_, _, err := pipeline.NewBatch(&pipeline.Runner{}, 1).Run(context.Background(), "/no/such/dir", domain.DocTypeReceipt)
	assert.Error(t, err)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()
	outcomes := []domain.FileOutcome{
		{Path: "/in/a.txt", State: domain.FileStateWritten},
		{Path: "/in/b.txt", State: domain.FileStateFailed, Error: "no text extracted"},
	}

	path, err := pipeline.WriteErrorLog(dir, outcomes)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/in/b.txt\tno text extracted\n", string(data))
}

func TestWriteErrorLog_NoFailures(t *testing.T) {
	path, err := pipeline.WriteErrorLog(t.TempDir(), []domain.FileOutcome{
		{Path: "/in/a.txt", State: domain.FileStateWritten},
	})
	require.NoError(t, err)
	assert.Empty(t, path)
}
