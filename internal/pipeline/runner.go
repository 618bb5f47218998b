package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"dociq/internal/domain"
	"dociq/internal/port"
	"dociq/internal/schema"
)

// Runner drives a single document through the full extraction flow:
// text extraction, the cascade, schema validation, the receipt
// discrepancy check, and result writing.
type Runner struct {
	source    port.TextSource
	cascade   *Cascade
	validator *schema.Validator
	writer    port.ResultWriter
}

// NewRunner wires a Runner from its stages.
func NewRunner(source port.TextSource, cascade *Cascade, validator *schema.Validator, writer port.ResultWriter) *Runner {
	return &Runner{
		source:    source,
		cascade:   cascade,
		validator: validator,
		writer:    writer,
	}
}

// ProcessFile extracts, validates, and writes the record for one file.
// The written result is named after the input file with a .json extension.
func (r *Runner) ProcessFile(ctx context.Context, filePath string, docType domain.DocumentType) (*Result, error) {
	text, err := r.source.Extract(ctx, filePath)
	if err != nil {
		return nil, err
	}

	result, err := r.cascade.Extract(ctx, text, docType)
	if err != nil {
		return nil, err
	}

	validated, err := r.validator.Validate(result.Record, docType)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", filePath, err)
	}

	if docType == domain.DocTypeReceipt {
		schema.CheckDiscrepancy(validated)
	}

	result.Record = validated
	if err := r.writer.Write(ctx, ResultName(filePath), docType, validated); err != nil {
		return nil, fmt.Errorf("writing result for %s: %w", filePath, err)
	}
	return result, nil
}

// ResultName maps an input file path to its output record name.
func ResultName(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".json"
}
