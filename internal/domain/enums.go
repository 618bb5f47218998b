package domain

import "fmt"

// DocumentType identifies the kind of document being extracted.
// It selects the field schema, the prompt template, and the
// deterministic extractor to apply.
type DocumentType string

const (
	DocTypeLicense DocumentType = "license"
	DocTypeReceipt DocumentType = "receipt"
	DocTypeResume  DocumentType = "resume"
)

// ValidDocumentTypes is the set of supported document types.
var ValidDocumentTypes = map[DocumentType]bool{
	DocTypeLicense: true,
	DocTypeReceipt: true,
	DocTypeResume:  true,
}

// SupportedDocumentTypes returns the supported types in a stable order.
func SupportedDocumentTypes() []DocumentType {
	return []DocumentType{DocTypeLicense, DocTypeReceipt, DocTypeResume}
}

// ParseDocumentType converts a string into a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	dt := DocumentType(s)
	if !ValidDocumentTypes[dt] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDocType, s)
	}
	return dt, nil
}

// FileState tracks a single file through the batch pipeline.
type FileState string

const (
	FileStatePending   FileState = "pending"
	FileStateTexted    FileState = "texted" // raw text obtained from OCR or PDF extraction
	FileStateExtracted FileState = "extracted"
	FileStateValidated FileState = "validated"
	FileStateWritten   FileState = "written"
	FileStateFailed    FileState = "failed"
	FileStateSkipped   FileState = "skipped" // text extraction produced empty output
)

// JobStatus is the lifecycle of an uploaded document job on the HTTP API.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Strategy says which extraction strategy supplied a field.
type Strategy string

const (
	StrategyDeterministic Strategy = "deterministic"
	StrategyModel         Strategy = "model"
)

// SupportedExtensions lists the input file extensions (without dot) that
// text extraction accepts.
var SupportedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"pdf":  true,
	"txt":  true,
}
