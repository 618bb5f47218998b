package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dociq/internal/domain"
)

// ocrTextPlaceholder is the marker in prompt templates that gets replaced
// with the extracted document text.
const ocrTextPlaceholder = "<INSERT_OCR_TEXT_HERE>"

// PromptStore holds the extraction prompt template for each document type,
// loaded once from a directory of <type>_extraction.txt files.
type PromptStore struct {
	templates map[domain.DocumentType]string
}

// LoadPrompts reads one prompt template per supported document type from dir.
func LoadPrompts(dir string) (*PromptStore, error) {
	types := domain.SupportedDocumentTypes()
	templates := make(map[domain.DocumentType]string, len(types))
	for _, docType := range types {
		path := filepath.Join(dir, fmt.Sprintf("%s_extraction.txt", docType))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrPromptNotFound, path, err)
		}
		templates[docType] = string(data)
	}
	return &PromptStore{templates: templates}, nil
}

// NewPromptStore builds a store from in-memory templates. Intended for tests.
func NewPromptStore(templates map[domain.DocumentType]string) *PromptStore {
	return &PromptStore{templates: templates}
}

// Render substitutes the document text into the template for docType.
// Templates without the placeholder get the text appended instead.
func (s *PromptStore) Render(docType domain.DocumentType, text string) (string, error) {
	tmpl, ok := s.templates[docType]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrPromptNotFound, docType)
	}
	if strings.Contains(tmpl, ocrTextPlaceholder) {
		return strings.ReplaceAll(tmpl, ocrTextPlaceholder, text), nil
	}
	return tmpl + "\n\n" + text, nil
}
