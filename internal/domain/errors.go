package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrNoTextExtracted    = errors.New("no text extracted from document")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrUnsupportedDocType = errors.New("unsupported document type")
	ErrExtractionFailed   = errors.New("text extraction failed")
	ErrModelFailed        = errors.New("model extraction failed after retries")
	ErrInvalidResponse    = errors.New("invalid model response")
	ErrMissingCredential  = errors.New("model API key is not configured")
	ErrPromptNotFound     = errors.New("prompt template not found")
	ErrResultNotReady     = errors.New("result not ready")
)

// ExtractionIncompleteError signals that the deterministic receipt pass
// could not produce one of its fields. The pass is all-or-nothing, so a
// single field failure aborts it and the caller falls back to the model.
type ExtractionIncompleteError struct {
	Field string
}

func (e *ExtractionIncompleteError) Error() string {
	return fmt.Sprintf("deterministic extraction incomplete: could not extract %s", e.Field)
}

// RequiredFieldMissingError is a terminal validation failure: a required
// schema field is absent or null. It is never auto-corrected.
type RequiredFieldMissingError struct {
	DocType DocumentType
	Field   string
}

func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("required field %q is missing for %s", e.Field, e.DocType)
}

// MalformedLineItemError is a terminal validation failure: a receipt line
// item lacks a name or a price. It fails the whole record, not just the item.
type MalformedLineItemError struct {
	Index  int
	Reason string
}

func (e *MalformedLineItemError) Error() string {
	return fmt.Sprintf("malformed line item at index %d: %s", e.Index, e.Reason)
}
