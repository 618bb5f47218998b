// Package pipeline orchestrates field extraction: deterministic parsing
// first, a model fallback when the deterministic pass cannot produce a
// complete record, then schema validation of the winning record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dociq/internal/domain"
	"dociq/internal/extract"
	"dociq/internal/port"
)

// Result is the outcome of a cascade run. FieldSources records, per field,
// whether the value came from the deterministic pass or the model.
type Result struct {
	Record       domain.FieldMap
	ModelInvoked bool
	FieldSources map[string]domain.Strategy
}

// Cascade runs the deterministic-first extraction strategy with a model
// fallback. Retries around the model call use a fixed backoff; the sleep
// function is injectable so tests do not wait.
type Cascade struct {
	model      port.ModelExtractor
	maxRetries int
	backoff    time.Duration
	sleep      func(time.Duration)
}

// NewCascade creates a Cascade. maxRetries is the number of model retries
// after the first attempt; backoff is the fixed delay between attempts.
func NewCascade(model port.ModelExtractor, maxRetries int, backoff time.Duration) *Cascade {
	return &Cascade{
		model:      model,
		maxRetries: maxRetries,
		backoff:    backoff,
		sleep:      time.Sleep,
	}
}

// SetSleep overrides the inter-retry sleep function. Intended for tests.
func (c *Cascade) SetSleep(fn func(time.Duration)) {
	c.sleep = fn
}

// Extract produces a field record for the document text. Empty input fails
// fast without touching the model.
func (c *Cascade) Extract(ctx context.Context, text string, docType domain.DocumentType) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoTextExtracted
	}

	switch docType {
	case domain.DocTypeReceipt:
		return c.extractReceipt(ctx, text)
	case domain.DocTypeLicense:
		return c.extractLicense(ctx, text)
	case domain.DocTypeResume:
		return c.extractResume(ctx, text)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocType, docType)
	}
}

// extractReceipt is all-or-nothing: any field the deterministic parser
// cannot find sends the whole document to the model.
func (c *Cascade) extractReceipt(ctx context.Context, text string) (*Result, error) {
	record, err := extract.ParseReceipt(text)
	if err == nil {
		return deterministicResult(record), nil
	}

	var incomplete *domain.ExtractionIncompleteError
	if errors.As(err, &incomplete) {
		log.Printf("pipeline.Cascade: receipt field %q not found, falling back to model", incomplete.Field)
	} else {
		log.Printf("pipeline.Cascade: receipt parse failed (%v), falling back to model", err)
	}

	return c.modelResult(ctx, text, domain.DocTypeReceipt)
}

// extractLicense accepts the deterministic pass only when every license
// field was found; otherwise the model redoes the whole document.
func (c *Cascade) extractLicense(ctx context.Context, text string) (*Result, error) {
	record := extract.ParseLicense(text)
	if extract.LicenseComplete(record) {
		return deterministicResult(record), nil
	}

	log.Printf("pipeline.Cascade: license parse incomplete, falling back to model")
	return c.modelResult(ctx, text, domain.DocTypeLicense)
}

// extractResume keeps every plausible deterministic field and asks the
// model only for the ones the regex pass missed, merging per field.
func (c *Cascade) extractResume(ctx context.Context, text string) (*Result, error) {
	record := extract.ParseResume(text)

	var missing []string
	for _, field := range extract.ResumeFields {
		if !extract.ResumeFieldValid(field, record[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return deterministicResult(record), nil
	}

	log.Printf("pipeline.Cascade: resume fields %v not found, falling back to model", missing)
	modelRecord, err := c.callModel(ctx, text, domain.DocTypeResume)
	if err != nil {
		return nil, err
	}

	merged := record.Clone()
	sources := make(map[string]domain.Strategy, len(extract.ResumeFields))
	for _, field := range extract.ResumeFields {
		if extract.ResumeFieldValid(field, record[field]) {
			sources[field] = domain.StrategyDeterministic
			continue
		}
		merged[field] = modelRecord[field]
		sources[field] = domain.StrategyModel
	}

	return &Result{
		Record:       merged,
		ModelInvoked: true,
		FieldSources: sources,
	}, nil
}

// modelResult runs the model and attributes every field to it.
func (c *Cascade) modelResult(ctx context.Context, text string, docType domain.DocumentType) (*Result, error) {
	record, err := c.callModel(ctx, text, docType)
	if err != nil {
		return nil, err
	}

	sources := make(map[string]domain.Strategy, len(record))
	for field := range record {
		sources[field] = domain.StrategyModel
	}
	return &Result{
		Record:       record,
		ModelInvoked: true,
		FieldSources: sources,
	}, nil
}

// callModel invokes the model extractor with fixed-backoff retries.
func (c *Cascade) callModel(ctx context.Context, text string, docType domain.DocumentType) (domain.FieldMap, error) {
	var lastErr error
	attempts := c.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		record, err := c.model.Extract(ctx, text, docType)
		if err == nil {
			return record, nil
		}
		lastErr = err

		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrModelFailed, ctx.Err())
		}

		log.Printf("pipeline.Cascade: model attempt %d/%d for %s failed: %v", attempt, attempts, docType, err)
		if attempt < attempts {
			c.sleep(c.backoff)
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrModelFailed, lastErr)
}

func deterministicResult(record domain.FieldMap) *Result {
	sources := make(map[string]domain.Strategy, len(record))
	for field := range record {
		sources[field] = domain.StrategyDeterministic
	}
	return &Result{
		Record:       record,
		ModelInvoked: false,
		FieldSources: sources,
	}
}
