package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLicense = `IRL CEADUNAS TIOMANA DRIVING LICENCE
1. MURPHY 2. SEAN
3. 15.03.85
4b. 20.06.28
5. RTSD123456`

func TestParseLicense_AllFields(t *testing.T) {
	record := ParseLicense(sampleLicense)

	assert.Equal(t, "SEAN MURPHY", record["Name"])
	assert.Equal(t, "15.03.85", record["DateOfBirth"])
	assert.Equal(t, "20.06.28", record["ExpiryDate"])
	assert.Equal(t, "RTSD123456", record["LicenseNumber"])
	assert.Equal(t, "Ireland", record["IssuingState"])

	assert.True(t, LicenseComplete(record))
}

func TestParseLicense_CommaSeparators(t *testing.T) {
	// OCR frequently reads the field-number dots as commas.
	text := `IRL
1, MURPHY 2, SEAN
3, 15.03.85
4b, 20.06.28
5, D1234567`

	record := ParseLicense(text)
	require.Equal(t, "SEAN MURPHY", record["Name"])
	assert.Equal(t, "D1234567", record["LicenseNumber"])
	assert.True(t, LicenseComplete(record))
}

func TestParseLicense_AltNumberPattern(t *testing.T) {
	text := `IRL
1. MURPHY 2. SEAN
3. 15.03.85
4b. 20.06.28
RTSD 987654`

	record := ParseLicense(text)
	assert.Equal(t, "987654", record["LicenseNumber"])
}

func TestParseLicense_Incomplete(t *testing.T) {
	record := ParseLicense("1. MURPHY 2. SEAN")

	assert.Equal(t, "SEAN MURPHY", record["Name"])
	assert.Nil(t, record["DateOfBirth"])
	assert.Nil(t, record["LicenseNumber"])
	assert.Nil(t, record["IssuingState"])
	assert.False(t, LicenseComplete(record))
}

func TestParseLicense_NothingFound(t *testing.T) {
	record := ParseLicense("unreadable scan output")

	for _, field := range LicenseFields {
		assert.Nil(t, record[field], "field %s", field)
	}
	assert.False(t, LicenseComplete(record))
}
