package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"dociq/internal/domain"
)

// StripMarkdownFences removes a surrounding ```json ... ``` (or plain ```)
// fence that models often wrap JSON output in.
func StripMarkdownFences(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```json") {
		out = strings.TrimPrefix(out, "```json")
	} else if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// decodeFields parses a model response into a field map and null-fills any
// expected fields the model omitted. Non-object output is rejected.
func decodeFields(text string, expected []string) (domain.FieldMap, error) {
	cleaned := StripMarkdownFences(text)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var fields domain.FieldMap
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: decoding model output: %v (raw: %s)", domain.ErrInvalidResponse, err, truncate(cleaned, 500))
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: model returned null", domain.ErrInvalidResponse)
	}

	for _, field := range expected {
		if _, ok := fields[field]; !ok {
			fields[field] = nil
		}
	}
	return fields, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
