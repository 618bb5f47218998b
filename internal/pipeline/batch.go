package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"dociq/internal/domain"
)

// Batch processes every supported file in a directory through a Runner,
// bounded by a worker semaphore.
type Batch struct {
	runner      *Runner
	concurrency int
}

// NewBatch creates a batch driver. concurrency values below 1 run serially.
func NewBatch(runner *Runner, concurrency int) *Batch {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Batch{runner: runner, concurrency: concurrency}
}

// Run processes all files in inputDir as docType documents and returns
// the per-file outcomes plus aggregate counts. Files with unsupported
// extensions are counted as skipped, not failed.
func (b *Batch) Run(ctx context.Context, inputDir string, docType domain.DocumentType) (*domain.BatchSummary, []domain.FileOutcome, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading input dir %s: %w", inputDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(inputDir, entry.Name()))
	}
	sort.Strings(files)

	outcomes := make([]domain.FileOutcome, len(files))
	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
		if !domain.SupportedExtensions[ext] {
			log.Printf("pipeline.Batch: skipping %s (unsupported extension)", file)
			outcomes[i] = domain.FileOutcome{Path: file, State: domain.FileStateSkipped}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = b.processOne(ctx, file, docType)
		}(i, file)
	}
	wg.Wait()

	summary := &domain.BatchSummary{TotalFiles: len(files)}
	for _, outcome := range outcomes {
		switch outcome.State {
		case domain.FileStateWritten:
			summary.Success++
		case domain.FileStateSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		if outcome.ModelInvoked {
			summary.FallbackUsed++
		}
	}

	log.Printf("pipeline.Batch: done (total=%d success=%d failed=%d skipped=%d fallback=%d)",
		summary.TotalFiles, summary.Success, summary.Failed, summary.Skipped, summary.FallbackUsed)
	return summary, outcomes, nil
}

func (b *Batch) processOne(ctx context.Context, file string, docType domain.DocumentType) domain.FileOutcome {
	result, err := b.runner.ProcessFile(ctx, file, docType)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			return domain.FileOutcome{Path: file, State: domain.FileStateSkipped, Error: err.Error()}
		}
		log.Printf("pipeline.Batch: %s failed: %v", file, err)
		return domain.FileOutcome{Path: file, State: domain.FileStateFailed, Error: err.Error()}
	}
	return domain.FileOutcome{
		Path:         file,
		State:        domain.FileStateWritten,
		ModelInvoked: result.ModelInvoked,
	}
}

// WriteErrorLog writes the failed outcomes to a timestamped log file in
// dir. Nothing is written when every file succeeded.
func WriteErrorLog(dir string, outcomes []domain.FileOutcome) (string, error) {
	var lines []string
	for _, outcome := range outcomes {
		if outcome.State == domain.FileStateFailed {
			lines = append(lines, fmt.Sprintf("%s\t%s", outcome.Path, outcome.Error))
		}
	}
	if len(lines) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("errors_%s.log", time.Now().Format("20060102_150405")))
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing error log: %w", err)
	}
	return path, nil
}
