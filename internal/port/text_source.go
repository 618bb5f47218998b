package port

import "context"

// TextSource abstracts "raw text for a document": OCR for images, embedded
// text extraction for PDFs. Implementations must return
// domain.ErrUnsupportedFormat for unrecognized extensions and
// domain.ErrExtractionFailed when every available backend fails.
type TextSource interface {
	Extract(ctx context.Context, filePath string) (string, error)
}
