package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractReader performs OCR on image files via the Tesseract engine.
// A fresh client is created per call; gosseract clients are not safe for
// concurrent use.
type TesseractReader struct {
	languages []string
}

// NewTesseractReader creates an image text reader for the given
// recognition languages.
func NewTesseractReader(languages []string) *TesseractReader {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractReader{languages: languages}
}

// Read runs OCR on the image at path and returns the recognized text.
func (r *TesseractReader) Read(path string) (string, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("setting languages %s: %w", strings.Join(r.languages, "+"), err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}
	return text, nil
}
