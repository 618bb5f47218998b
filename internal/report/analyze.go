// Package report analyzes written extraction records and produces
// field-completeness summaries in CSV or XLSX form.
package report

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"dociq/internal/domain"
	"dociq/internal/schema"
)

// FileReport holds the per-record analysis results.
type FileReport struct {
	FileName       string
	DocumentType   string
	TotalFields    int
	MissingFields  int
	FallbackUsed   bool
	CompletionRate float64
}

// Summary aggregates a set of file reports.
type Summary struct {
	TotalFiles        int
	AverageCompletion float64
	FallbackCount     int
}

// AnalyzeDir walks dir recursively, analyzes every .json record, and
// returns the per-file reports plus aggregate numbers.
func AnalyzeDir(dir string, registry *schema.Registry) ([]FileReport, *Summary, error) {
	var reports []FileReport
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		reports = append(reports, analyzeFile(path, registry))
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	if len(reports) == 0 {
		return nil, nil, fmt.Errorf("no JSON records found in %s", dir)
	}

	summary := &Summary{TotalFiles: len(reports)}
	var totalCompletion float64
	for _, r := range reports {
		totalCompletion += r.CompletionRate
		if r.FallbackUsed {
			summary.FallbackCount++
		}
	}
	summary.AverageCompletion = totalCompletion / float64(len(reports))
	return reports, summary, nil
}

func analyzeFile(path string, registry *schema.Registry) FileReport {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("report: reading %s: %v", path, err)
		return FileReport{FileName: filepath.Base(path), DocumentType: "error"}
	}

	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("report: parsing %s: %v", path, err)
		return FileReport{FileName: filepath.Base(path), DocumentType: "error"}
	}

	docType := detectDocumentType(path)
	expected := expectedFields(registry, docType)

	missing := 0
	for _, field := range expected {
		if fieldMissing(record[field]) {
			missing++
		}
	}

	completion := 0.0
	if len(expected) > 0 {
		completion = float64(len(expected)-missing) / float64(len(expected)) * 100
	}

	return FileReport{
		FileName:       filepath.Base(path),
		DocumentType:   string(docType),
		TotalFields:    len(expected),
		MissingFields:  missing,
		FallbackUsed:   guessFallback(docType, record, missing),
		CompletionRate: math.Round(completion*100) / 100,
	}
}

// detectDocumentType infers the record's document type from the parent
// directory name, then from filename keywords.
func detectDocumentType(path string) domain.DocumentType {
	parent := strings.ToLower(filepath.Base(filepath.Dir(path)))
	if t, ok := typeFromName(parent); ok {
		return t
	}

	name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if t, ok := typeFromName(name); ok {
		return t
	}
	return ""
}

func typeFromName(name string) (domain.DocumentType, bool) {
	switch {
	case strings.Contains(name, "license"), strings.Contains(name, "driving"):
		return domain.DocTypeLicense, true
	case strings.Contains(name, "receipt"), strings.Contains(name, "invoice"), strings.Contains(name, "bill"):
		return domain.DocTypeReceipt, true
	case strings.Contains(name, "resume"), strings.Contains(name, "cv"), strings.Contains(name, "curriculum"):
		return domain.DocTypeResume, true
	}
	return "", false
}

func expectedFields(registry *schema.Registry, docType domain.DocumentType) []string {
	if docType == "" {
		return nil
	}
	var out []string
	for _, field := range registry.CanonicalFields(docType) {
		// The discrepancy flag is derived, not extracted.
		if field == "DiscrepancyWarning" {
			continue
		}
		out = append(out, field)
	}
	return out
}

func fieldMissing(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	}
	return false
}

// guessFallback estimates whether the model pass contributed to the
// record. Records carry no provenance, so this is a per-type heuristic.
func guessFallback(docType domain.DocumentType, record map[string]interface{}, missing int) bool {
	switch docType {
	case domain.DocTypeResume:
		return missing > 0
	case domain.DocTypeLicense:
		return true
	case domain.DocTypeReceipt:
		items, _ := record["LineItems"].([]interface{})
		for _, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				if name, _ := m["name"].(string); name != "" {
					return true
				}
			}
		}
	}
	return false
}
