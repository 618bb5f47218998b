package extract

import (
	"regexp"
	"strings"

	"dociq/internal/domain"
)

// LicenseFields are the canonical driving licence fields, in output order.
var LicenseFields = []string{
	"Name", "DateOfBirth", "LicenseNumber", "IssuingState", "ExpiryDate",
}

// Irish licences label their fields with EU-standard numbers: 1. surname,
// 2. first name, 3. date of birth, 4b. expiry date, 5. driver number.
// OCR often reads the dots as commas, so both are accepted. The word
// boundaries stop the field numbers from matching inside date values
// like "15.03.85".
var (
	licNameRe      = regexp.MustCompile(`\b1[.,]\s*([A-Za-z\s]+?)\s*2[.,]?\s*([A-Za-z\s]+?)(?:\s|$)`)
	licDOBRe       = regexp.MustCompile(`\b3[.,]\s*(\d{2}\.\d{2}\.\d{2})`)
	licExpiryRe    = regexp.MustCompile(`\b4b[.,]\s*(\d{2}\.\d{2}\.\d{2})`)
	licNumberRe    = regexp.MustCompile(`\b5[.,]\s*([A-Z0-9]+)`)
	licNumberAltRe = regexp.MustCompile(`RTSD\s*([A-Z0-9]+)`)
)

// ParseLicense runs the deterministic driving-licence pass. Fields that do
// not match stay nil; the cascade decides whether the result is complete
// enough to skip the model.
func ParseLicense(text string) domain.FieldMap {
	result := domain.FieldMap{
		"Name":          nil,
		"DateOfBirth":   nil,
		"LicenseNumber": nil,
		"IssuingState":  nil,
		"ExpiryDate":    nil,
	}

	if m := licNameRe.FindStringSubmatch(text); m != nil {
		surname := strings.TrimSpace(m[1])
		first := strings.TrimSpace(m[2])
		result["Name"] = strings.TrimSpace(first + " " + surname)
	}
	if m := licDOBRe.FindStringSubmatch(text); m != nil {
		result["DateOfBirth"] = m[1]
	}
	if m := licExpiryRe.FindStringSubmatch(text); m != nil {
		result["ExpiryDate"] = m[1]
	}
	if m := licNumberRe.FindStringSubmatch(text); m != nil {
		result["LicenseNumber"] = m[1]
	} else if m := licNumberAltRe.FindStringSubmatch(text); m != nil {
		result["LicenseNumber"] = m[1]
	}
	if strings.Contains(text, "IRL") {
		result["IssuingState"] = "Ireland"
	}

	return result
}

// LicenseComplete reports whether the deterministic pass filled every
// canonical field. Anything less falls back to the model wholesale.
func LicenseComplete(result domain.FieldMap) bool {
	for _, field := range LicenseFields {
		if result[field] == nil {
			return false
		}
	}
	return true
}
