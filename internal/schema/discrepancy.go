package schema

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"

	"dociq/internal/domain"
)

// discrepancyTolerance is the relative-error threshold separating an
// acceptable rounding difference from a flagged inconsistency.
const discrepancyTolerance = 0.02

// CheckDiscrepancy cross-checks the summed line-item prices of a validated
// receipt record against its stated total. When the relative difference
// exceeds the 2% tolerance it sets DiscrepancyWarning on the record and
// logs a warning. The check is informational: it never fails the record.
//
// A zero, absent, or unparseable TotalAmount makes a relative discrepancy
// meaningless, so the check is skipped and the existing flag left as is.
// Returns whether a discrepancy was flagged.
func CheckDiscrepancy(record domain.FieldMap) bool {
	total, ok := ParseAmount(record["TotalAmount"])
	if !ok || total <= 0 {
		return false
	}

	var sum float64
	switch items := record["LineItems"].(type) {
	case []interface{}:
		for _, el := range items {
			obj, ok := el.(map[string]interface{})
			if !ok {
				continue
			}
			if p, ok := ParseAmount(obj["price"]); ok {
				sum += p
			}
		}
	case []domain.LineItem:
		for _, item := range items {
			if p, ok := ParseAmount(item.Price); ok {
				sum += p
			}
		}
	default:
		return false
	}

	discrepancy := math.Abs(sum-total) / total
	if discrepancy > discrepancyTolerance {
		record["DiscrepancyWarning"] = true
		log.Printf("schema.CheckDiscrepancy: sum of items %.2f vs total %.2f (%.1f%% difference)",
			sum, total, discrepancy*100)
		return true
	}
	return false
}

// ParseAmount converts a monetary value in any of the shapes the extractors
// and the model produce (float, int, json.Number, or a string like "$45.67"
// or "1,299.00") into a float64.
func ParseAmount(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		cleaned := strings.TrimSpace(val)
		cleaned = strings.TrimLeft(cleaned, "$€£¥ ")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
