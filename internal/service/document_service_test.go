package service_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dociq/internal/domain"
	"dociq/internal/ocr"
	"dociq/internal/pipeline"
	"dociq/internal/schema"
	"dociq/internal/service"
	"dociq/mocks"
)

const receiptText = `WALMART
01/15/2024
Milk 3.99
Bread 2.49
TOTAL $6.48
VISA CARD`

func newTestService(t *testing.T, writer *mocks.MockResultWriter) (service.DocumentService, *service.JobStore) {
	t.Helper()
	store := service.NewJobStore()
	runner := pipeline.NewRunner(
		ocr.NewEngine(nil),
		pipeline.NewCascade(new(mocks.MockModelExtractor), 0, 0),
		schema.NewValidator(schema.NewRegistry()),
		writer,
	)
	svc, err := service.NewDocumentService(store, runner, t.TempDir())
	require.NoError(t, err)
	return svc, store
}

func TestUpload(t *testing.T) {
	svc, store := newTestService(t, new(mocks.MockResultWriter))

	job, err := svc.Upload(context.Background(), &service.UploadInput{
		FileName:     "receipt_scan.txt",
		DocumentType: "receipt",
		Content:      strings.NewReader(receiptText),
	})
	require.NoError(t, err)

	assert.Equal(t, "receipt_scan.txt", job.FileName)
	assert.Equal(t, domain.DocTypeReceipt, job.DocumentType)
	assert.Equal(t, domain.JobStatusQueued, job.Status)
	assert.Equal(t, "queued", job.Progress)

	// The upload is staged under the job id, not the original name.
	assert.Contains(t, job.FilePath, job.ID.String())
	data, err := os.ReadFile(job.FilePath)
	require.NoError(t, err)
	assert.Equal(t, receiptText, string(data))

	stored, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusQueued, stored.Status)
}

func TestUpload_BadDocumentType(t *testing.T) {
	svc, _ := newTestService(t, new(mocks.MockResultWriter))

	_, err := svc.Upload(context.Background(), &service.UploadInput{
		FileName:     "scan.txt",
		DocumentType: "passport",
		Content:      strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocType)
}

func TestUpload_BadExtension(t *testing.T) {
	svc, _ := newTestService(t, new(mocks.MockResultWriter))

	_, err := svc.Upload(context.Background(), &service.UploadInput{
		FileName:     "scan.docx",
		DocumentType: "receipt",
		Content:      strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestProcessJob(t *testing.T) {
	writer := new(mocks.MockResultWriter)
	writer.On("Write", mock.Anything, mock.Anything, domain.DocTypeReceipt, mock.Anything).Return(nil).Once()
	svc, store := newTestService(t, writer)

	job, err := svc.Upload(context.Background(), &service.UploadInput{
		FileName:     "receipt_scan.txt",
		DocumentType: "receipt",
		Content:      strings.NewReader(receiptText),
	})
	require.NoError(t, err)

	claimed := store.ClaimQueued(1)
	require.Len(t, claimed, 1)
	svc.ProcessJob(context.Background(), &claimed[0])

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	assert.Equal(t, "done", got.Progress)
	assert.Equal(t, "WALMART", got.Result["MerchantName"])
	assert.NotNil(t, got.CompletedAt)

	// The staged upload is removed after processing.
	_, statErr := os.Stat(job.FilePath)
	assert.True(t, os.IsNotExist(statErr))
	writer.AssertExpectations(t)
}

func TestProcessJob_Failure(t *testing.T) {
	svc, store := newTestService(t, new(mocks.MockResultWriter))

	job, err := svc.Upload(context.Background(), &service.UploadInput{
		FileName:     "blank.txt",
		DocumentType: "receipt",
		Content:      strings.NewReader("   "),
	})
	require.NoError(t, err)

	claimed := store.ClaimQueued(1)
	require.Len(t, claimed, 1)
	svc.ProcessJob(context.Background(), &claimed[0])

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestGetResult(t *testing.T) {
	svc, store := newTestService(t, new(mocks.MockResultWriter))

	job, err := svc.Upload(context.Background(), &service.UploadInput{
		FileName:     "scan.txt",
		DocumentType: "receipt",
		Content:      strings.NewReader(receiptText),
	})
	require.NoError(t, err)

	// Not completed yet.
	_, err = svc.GetResult(context.Background(), job.ID)
	assert.ErrorIs(t, err, domain.ErrResultNotReady)

	record := domain.FieldMap{"MerchantName": "WALMART"}
	store.Complete(job.ID, record, false)

	got, err := svc.GetResult(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// Unknown job ids surface as not found.
	_, err = svc.GetResult(context.Background(), newTestJob(time.Now()).ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
