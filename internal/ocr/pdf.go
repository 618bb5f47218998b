package ocr

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFReader extracts the text layer from PDF documents. Scanned PDFs
// without a text layer yield an empty string, which the engine reports
// as no text extracted.
type PDFReader struct{}

// NewPDFReader creates a PDF text reader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// Read returns the plain text content of the PDF at path.
func (r *PDFReader) Read(path string) (string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}
