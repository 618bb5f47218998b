package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dociq/internal/domain"
)

// JobStore is an in-memory registry of extraction jobs. All methods are
// safe for concurrent use and operate on copies; callers never share the
// stored Job value.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.Job
}

// NewJobStore creates an empty job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[uuid.UUID]*domain.Job)}
}

// Create registers a new job.
func (s *JobStore) Create(job *domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *job
	s.jobs[job.ID] = &stored
}

// Get returns a copy of the job, or domain.ErrNotFound.
func (s *JobStore) Get(id uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *job
	return &out, nil
}

// List returns copies of all jobs, newest first.
func (s *JobStore) List() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ClaimQueued atomically moves up to limit queued jobs to processing and
// returns copies of them, oldest first.
func (s *JobStore) ClaimQueued(limit int) []domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var queued []*domain.Job
	for _, job := range s.jobs {
		if job.Status == domain.JobStatusQueued {
			queued = append(queued, job)
		}
	}
	sort.Slice(queued, func(i, j int) bool {
		return queued[i].CreatedAt.Before(queued[j].CreatedAt)
	})
	if limit < len(queued) {
		queued = queued[:limit]
	}

	out := make([]domain.Job, 0, len(queued))
	for _, job := range queued {
		job.Status = domain.JobStatusProcessing
		out = append(out, *job)
	}
	return out
}

// SetProgress updates a job's progress message.
func (s *JobStore) SetProgress(id uuid.UUID, progress string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Progress = progress
	}
}

// Complete marks a job as finished with its extracted record.
func (s *JobStore) Complete(id uuid.UUID, record domain.FieldMap, modelInvoked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now()
	job.Status = domain.JobStatusCompleted
	job.Progress = "done"
	job.Result = record
	job.ModelInvoked = modelInvoked
	job.CompletedAt = &now
}

// Fail marks a job as failed with the error message.
func (s *JobStore) Fail(id uuid.UUID, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	now := time.Now()
	job.Status = domain.JobStatusFailed
	job.Error = errMsg
	job.CompletedAt = &now
}
