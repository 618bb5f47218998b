package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldMap is an extracted record: field name to value. Values are strings,
// numbers, nested lists of objects, or nil. A FieldMap is owned by the
// request that produced it and is not shared across extractions.
type FieldMap map[string]interface{}

// Clone returns a shallow copy of the map. Nested values are shared, but
// the cascade only ever replaces whole fields, never mutates nested values.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LineItem is a single purchased item on a receipt. Name and Price are
// mandatory; a record with an item missing either is rejected outright.
type LineItem struct {
	Name     string      `json:"name"`
	Quantity interface{} `json:"quantity,omitempty"`
	Price    interface{} `json:"price"`
}

// BatchSummary aggregates per-file outcomes over one batch run. It is
// built incrementally while the batch iterates and discarded afterwards.
type BatchSummary struct {
	TotalFiles   int `json:"total_files"`
	Success      int `json:"success"`
	Failed       int `json:"failed"`
	Skipped      int `json:"skipped"`
	FallbackUsed int `json:"fallback_used"`
}

// FileOutcome records the terminal state of one file in a batch.
type FileOutcome struct {
	Path         string    `json:"path"`
	State        FileState `json:"state"`
	Error        string    `json:"error,omitempty"`
	ModelInvoked bool      `json:"model_invoked"`
}

// Job is an asynchronous extraction request on the HTTP API. Jobs live in
// an in-memory store with no durability guarantees.
type Job struct {
	ID           uuid.UUID    `json:"id"`
	FileName     string       `json:"file_name"`
	FilePath     string       `json:"-"`
	DocumentType DocumentType `json:"document_type"`
	Status       JobStatus    `json:"status"`
	Progress     string       `json:"progress"`
	Error        string       `json:"error,omitempty"`
	ModelInvoked bool         `json:"model_invoked"`
	Result       FieldMap     `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}
