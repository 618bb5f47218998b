package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	for _, want := range SupportedDocumentTypes() {
		got, err := ParseDocumentType(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDocumentType("passport")
	assert.ErrorIs(t, err, ErrUnsupportedDocType)

	// Matching is exact, not case-folded.
	_, err = ParseDocumentType("Receipt")
	assert.Error(t, err)
}

func TestFieldMapClone(t *testing.T) {
	m := FieldMap{"a": 1, "b": nil}
	c := m.Clone()
	c["a"] = 2

	assert.Equal(t, 1, m["a"])
	assert.Equal(t, 2, c["a"])
}
