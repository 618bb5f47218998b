package port

import (
	"context"

	"dociq/internal/domain"
)

// ResultWriter persists one final structured record per input document.
// Writes are overwrite-by-name: repeating a write for the same name must
// replace the previous artifact, which makes retries idempotent.
// The document type selects the canonical field order of the serialized
// record.
type ResultWriter interface {
	Write(ctx context.Context, name string, docType domain.DocumentType, record domain.FieldMap) error
}
