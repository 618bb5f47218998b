// Package output serializes validated extraction records and persists
// them to the configured backend.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"dociq/internal/domain"
	"dociq/internal/schema"
)

// EncodeRecord serializes a record as 2-space-indented JSON with the keys
// in the schema's canonical order. Keys outside the schema follow, sorted.
// HTML characters are not escaped.
func EncodeRecord(record domain.FieldMap, order []string) ([]byte, error) {
	keys := orderedKeys(record, order)

	var raw bytes.Buffer
	raw.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			raw.WriteByte(',')
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", key, err)
		}
		raw.Write(keyBytes)
		raw.WriteByte(':')

		valBytes, err := marshalValue(record[key])
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", key, err)
		}
		raw.Write(valBytes)
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indenting record: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// OrderFor returns the canonical key order for docType, or nil for
// unknown types (keys then sort alphabetically).
func OrderFor(registry *schema.Registry, docType domain.DocumentType) []string {
	if s, ok := registry.Get(docType); ok {
		return s.FieldOrder()
	}
	return nil
}

func orderedKeys(record domain.FieldMap, order []string) []string {
	keys := make([]string, 0, len(record))
	seen := make(map[string]bool, len(record))
	for _, key := range order {
		if _, ok := record[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	var extras []string
	for key := range record {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}

func marshalValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
