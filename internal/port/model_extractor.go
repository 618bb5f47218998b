package port

import (
	"context"

	"dociq/internal/domain"
)

// ModelExtractor abstracts a call to an external language model that maps
// raw document text to a field mapping for the given document type.
// Implementations fail with domain.ErrInvalidResponse for malformed output,
// domain.ErrMissingCredential when no access key is configured, and
// domain.ErrUnsupportedDocType for unknown types. Calls are fallible and
// retryable; retry policy belongs to the caller, not the implementation.
type ModelExtractor interface {
	Extract(ctx context.Context, text string, docType domain.DocumentType) (domain.FieldMap, error)
}
