// Package ocr extracts raw text from input documents. Images go through
// Tesseract, PDFs through a text-layer reader, and .txt files are read
// directly. The engine routes by file extension.
package ocr

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dociq/internal/domain"
)

// Engine implements port.TextSource by routing files to the extraction
// backend matching their extension.
type Engine struct {
	images *TesseractReader
	pdfs   *PDFReader
}

// NewEngine creates a text extraction engine. languages selects the
// Tesseract recognition languages (defaults to English when empty).
func NewEngine(languages []string) *Engine {
	return &Engine{
		images: NewTesseractReader(languages),
		pdfs:   NewPDFReader(),
	}
}

// Extract returns the text content of the file at filePath.
// Files yielding no text at all produce domain.ErrNoTextExtracted.
func (e *Engine) Extract(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	if !domain.SupportedExtensions[ext] {
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "jpg", "jpeg", "png":
		text, err = e.images.Read(filePath)
	case "pdf":
		text, err = e.pdfs.Read(filePath)
	case "txt":
		text, err = readTextFile(filePath)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filePath, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("ocr.Engine: no text extracted from %s", filePath)
		return "", fmt.Errorf("%w: %s", domain.ErrNoTextExtracted, filePath)
	}
	return text, nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
