package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dociq/internal/domain"
	"dociq/internal/service"
	"dociq/mocks"
)

func TestExtractQueueWorker_DispatchesQueuedJobs(t *testing.T) {
	store := service.NewJobStore()
	job := newTestJob(time.Now())
	store.Create(job)

	processed := make(chan *domain.Job, 1)
	svc := new(mocks.MockDocumentService)
	svc.On("ProcessJob", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			processed <- args.Get(1).(*domain.Job)
		}).
		Return().Once()

	worker := service.NewExtractQueueWorker(store, svc, service.ExtractQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case got := <-processed:
		assert.Equal(t, job.ID, got.ID)
		assert.Equal(t, domain.JobStatusProcessing, got.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}
	svc.AssertExpectations(t)
}

func TestExtractQueueWorker_StopsOnCancel(t *testing.T) {
	worker := service.NewExtractQueueWorker(service.NewJobStore(), new(mocks.MockDocumentService), service.ExtractQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
