package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dociq/internal/domain"
	"dociq/internal/schema"
)

func TestEncodeRecord_SchemaOrder(t *testing.T) {
	registry := schema.NewRegistry()
	record := domain.FieldMap{
		"ExpiryDate": "20.06.28",
		"Name":       "Sean Murphy",
		"Zebra":      1,
		"Alpha":      true,
	}

	data, err := EncodeRecord(record, OrderFor(registry, domain.DocTypeLicense))
	require.NoError(t, err)

	want := `{
  "Name": "Sean Murphy",
  "ExpiryDate": "20.06.28",
  "Alpha": true,
  "Zebra": 1
}
`
	assert.Equal(t, want, string(data))
}

func TestEncodeRecord_NoHTMLEscaping(t *testing.T) {
	data, err := EncodeRecord(domain.FieldMap{"Note": "a < b & c"}, nil)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"a < b & c"`)
	assert.NotContains(t, string(data), `<`)
}

func TestEncodeRecord_NestedItems(t *testing.T) {
	record := domain.FieldMap{
		"LineItems": []domain.LineItem{
			{Name: "Milk", Price: "3.99"},
		},
	}

	data, err := EncodeRecord(record, nil)
	require.NoError(t, err)

	// Round-trips as valid JSON with the nested object intact.
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	items := decoded["LineItems"].([]interface{})
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Milk", item["name"])
	assert.Equal(t, "3.99", item["price"])
}

func TestOrderFor_UnknownType(t *testing.T) {
	assert.Nil(t, OrderFor(schema.NewRegistry(), domain.DocumentType("passport")))
}

func TestFileWriter_WriteAndOverwrite(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFileWriter(dir, schema.NewRegistry())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, writer.Write(ctx, "scan.json", domain.DocTypeLicense, domain.FieldMap{"Name": "First"}))
	require.NoError(t, writer.Write(ctx, "scan.json", domain.DocTypeLicense, domain.FieldMap{"Name": "Second"}))

	data, err := os.ReadFile(filepath.Join(dir, "scan.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Second")
	assert.NotContains(t, string(data), "First")
}

func TestFileWriter_CanceledContext(t *testing.T) {
	writer, err := NewFileWriter(t.TempDir(), schema.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = writer.Write(ctx, "scan.json", domain.DocTypeLicense, domain.FieldMap{"Name": "X"})
	assert.ErrorIs(t, err, context.Canceled)
}
