package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dociq/internal/domain"
	"dociq/internal/schema"
)

func writeRecord(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()

	// Type from the parent directory name.
	writeRecord(t, filepath.Join(dir, "receipt", "store1.json"), `{
		"MerchantName": "WALMART",
		"TotalAmount": "6.48",
		"LineItems": [{"name": "Milk", "price": "3.99"}]
	}`)
	// Type from filename keywords.
	writeRecord(t, filepath.Join(dir, "resume_jane.json"), `{
		"FullName": "Jane Doe",
		"Email": "jane@example.com",
		"Skills": []
	}`)

	reports, summary, err := AnalyzeDir(dir, schema.NewRegistry())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byName := make(map[string]FileReport, len(reports))
	for _, r := range reports {
		byName[r.FileName] = r
	}

	receipt := byName["store1.json"]
	assert.Equal(t, "receipt", receipt.DocumentType)
	// 12 extracted fields; the discrepancy flag is derived and excluded.
	assert.Equal(t, 12, receipt.TotalFields)
	assert.Equal(t, 9, receipt.MissingFields)
	assert.InDelta(t, 25.0, receipt.CompletionRate, 0.001)
	assert.True(t, receipt.FallbackUsed)

	resume := byName["resume_jane.json"]
	assert.Equal(t, "resume", resume.DocumentType)
	assert.Equal(t, 6, resume.TotalFields)
	assert.Equal(t, 4, resume.MissingFields)
	assert.InDelta(t, 33.33, resume.CompletionRate, 0.001)
	assert.True(t, resume.FallbackUsed)

	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 2, summary.FallbackCount)
	assert.InDelta(t, 29.165, summary.AverageCompletion, 0.01)
}

func TestAnalyzeDir_Empty(t *testing.T) {
	_, _, err := AnalyzeDir(t.TempDir(), schema.NewRegistry())
	assert.Error(t, err)
}

func TestAnalyzeDir_MalformedRecord(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, filepath.Join(dir, "receipt", "broken.json"), "{not json")

	reports, _, err := AnalyzeDir(dir, schema.NewRegistry())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "error", reports[0].DocumentType)
}

func TestDetectDocumentType(t *testing.T) {
	tests := []struct {
		path string
		want domain.DocumentType
	}{
		{"/out/receipt/store1.json", domain.DocTypeReceipt},
		{"/out/driving_licenses/scan.json", domain.DocTypeLicense},
		{"/out/invoice_march.json", domain.DocTypeReceipt},
		{"/out/jane_cv.json", domain.DocTypeResume},
		{"/out/misc/record.json", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectDocumentType(tt.path), "path %s", tt.path)
	}
}

func TestGuessFallback(t *testing.T) {
	assert.True(t, guessFallback(domain.DocTypeResume, nil, 2))
	assert.False(t, guessFallback(domain.DocTypeResume, nil, 0))
	assert.True(t, guessFallback(domain.DocTypeLicense, nil, 0))

	withItems := map[string]interface{}{
		"LineItems": []interface{}{map[string]interface{}{"name": "Milk"}},
	}
	assert.True(t, guessFallback(domain.DocTypeReceipt, withItems, 0))

	noNames := map[string]interface{}{
		"LineItems": []interface{}{map[string]interface{}{"price": "3.99"}},
	}
	assert.False(t, guessFallback(domain.DocTypeReceipt, noNames, 0))
}

func TestFieldMissing(t *testing.T) {
	assert.True(t, fieldMissing(nil))
	assert.True(t, fieldMissing(""))
	assert.True(t, fieldMissing([]interface{}{}))
	assert.False(t, fieldMissing("x"))
	assert.False(t, fieldMissing([]interface{}{"x"}))
	assert.False(t, fieldMissing(false))
	assert.False(t, fieldMissing(3.99))
}
