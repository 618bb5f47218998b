package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dociq/internal/domain"
	"dociq/internal/pipeline"
)

// UploadInput is the DTO for submitting a document for extraction.
type UploadInput struct {
	FileName     string
	DocumentType string
	Content      io.Reader
}

// DocumentService defines the extraction job contract backing the HTTP API.
type DocumentService interface {
	Upload(ctx context.Context, input *UploadInput) (*domain.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	GetResult(ctx context.Context, id uuid.UUID) (domain.FieldMap, error)
	ListJobs(ctx context.Context) []domain.Job
	ProcessJob(ctx context.Context, job *domain.Job)
}

type documentService struct {
	store     *JobStore
	runner    *pipeline.Runner
	uploadDir string
}

// NewDocumentService creates a DocumentService that stages uploads in
// uploadDir and runs extraction through runner.
func NewDocumentService(store *JobStore, runner *pipeline.Runner, uploadDir string) (DocumentService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", uploadDir, err)
	}
	return &documentService{
		store:     store,
		runner:    runner,
		uploadDir: uploadDir,
	}, nil
}

func (s *documentService) Upload(ctx context.Context, input *UploadInput) (*domain.Job, error) {
	docType, err := domain.ParseDocumentType(input.DocumentType)
	if err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(input.FileName)), ".")
	if !domain.SupportedExtensions[ext] {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}

	id := uuid.New()
	stagedPath := filepath.Join(s.uploadDir, fmt.Sprintf("%s.%s", id, ext))
	staged, err := os.Create(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("staging upload: %w", err)
	}
	if _, err := io.Copy(staged, input.Content); err != nil {
		_ = staged.Close()
		_ = os.Remove(stagedPath)
		return nil, fmt.Errorf("staging upload: %w", err)
	}
	if err := staged.Close(); err != nil {
		_ = os.Remove(stagedPath)
		return nil, fmt.Errorf("staging upload: %w", err)
	}

	job := &domain.Job{
		ID:           id,
		FileName:     filepath.Base(input.FileName),
		FilePath:     stagedPath,
		DocumentType: docType,
		Status:       domain.JobStatusQueued,
		Progress:     "queued",
		CreatedAt:    time.Now(),
	}
	s.store.Create(job)

	log.Printf("documentService: queued job %s (%s, %s)", job.ID, job.FileName, docType)
	return job, nil
}

func (s *documentService) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.store.Get(id)
}

func (s *documentService) GetResult(ctx context.Context, id uuid.UUID) (domain.FieldMap, error) {
	job, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return nil, fmt.Errorf("%w: job %s is %s", domain.ErrResultNotReady, id, job.Status)
	}
	return job.Result, nil
}

func (s *documentService) ListJobs(ctx context.Context) []domain.Job {
	return s.store.List()
}

// ProcessJob runs the extraction flow for a claimed job and records the
// outcome. The staged upload is removed afterwards in either case.
func (s *documentService) ProcessJob(ctx context.Context, job *domain.Job) {
	defer func() {
		if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("documentService: removing staged file %s: %v", job.FilePath, err)
		}
	}()

	s.store.SetProgress(job.ID, "extracting")
	result, err := s.runner.ProcessFile(ctx, job.FilePath, job.DocumentType)
	if err != nil {
		log.Printf("documentService: job %s failed: %v", job.ID, err)
		s.store.Fail(job.ID, err.Error())
		return
	}

	s.store.Complete(job.ID, result.Record, result.ModelInvoked)
	log.Printf("documentService: job %s completed (model_invoked=%t)", job.ID, result.ModelInvoked)
}
