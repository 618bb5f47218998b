// Package extract holds the deterministic, pattern-based field extractors.
// They are the cheap offline strategy: the cascade always tries them before
// spending a model call.
package extract

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dociq/internal/domain"
)

var merchantPatterns = []*regexp.Regexp{
	// Store names at the beginning of lines with a retail suffix.
	regexp.MustCompile(`(?i)^([A-Z][A-Z\s&]+(?:STORE|SHOP|MARKET|SUPERMARKET|GROCERY|PHARMACY|RETAIL|OUTLET|MART|CENTER|PLAZA|MALL))`),
	// Company names with a corporate suffix.
	regexp.MustCompile(`(?i)^([A-Z][A-Z\s&]+(?:INC|LLC|LTD|CORP|CO|COMPANY))`),
	// Names in quotes or brackets.
	regexp.MustCompile(`["']([^"']+)["']`),
	regexp.MustCompile(`\[([^\]]+)\]`),
	// Lines that look like store names: all caps, reasonable length.
	regexp.MustCompile(`^([A-Z][A-Z\s&]{2,20})$`),
	// Well-known chains.
	regexp.MustCompile(`(?i)(WALMART|TARGET|COSTCO|SAFEWAY|KROGER|ALBERTSONS|CVS|WALGREENS|RITE AID|DOLLAR GENERAL|DOLLAR TREE)`),
}

var datePatterns = []*regexp.Regexp{
	// MM/DD/YYYY, MM-DD-YYYY, and two-digit-year variants.
	regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`),
	regexp.MustCompile(`(?i)(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\w*\s+(\d{1,2}),?\s+(\d{4})`),
}

var monthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:TOTAL|GRAND TOTAL|AMOUNT DUE|BALANCE DUE|DUE|OWED)[:\s]*\$?(\d+\.\d{2})`),
	regexp.MustCompile(`\$(\d+\.\d{2})\s*$`),
	regexp.MustCompile(`[\$€£¥](\d+\.\d{2})`),
	regexp.MustCompile(`(\d{1,3}\.\d{2})`),
}

var itemPatterns = []*regexp.Regexp{
	// "QTY ITEM NAME $XX.XX"
	regexp.MustCompile(`^(\d+)\s+([A-Za-z][A-Za-z\s&]+?)\s+\$?(\d+\.\d{2})$`),
	// "ITEM NAME QTY $XX.XX"
	regexp.MustCompile(`^([A-Za-z][A-Za-z\s&]+?)\s+(\d+)\s+\$?(\d+\.\d{2})$`),
	// "ITEM NAME $XX.XX"
	regexp.MustCompile(`^([A-Za-z][A-Za-z\s&]{1,29}?)\s+\$?(\d+\.\d{2})$`),
}

var itemSkipWords = []string{"TOTAL", "SUBTOTAL", "TAX", "CHANGE", "CASH", "CARD", "RECEIPT", "THANK"}

var paymentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(VISA|MASTERCARD|AMEX|AMERICAN EXPRESS|DISCOVER|DEBIT|CREDIT)\s+CARD`),
	regexp.MustCompile(`(?i)CARD\s+(VISA|MASTERCARD|AMEX|AMERICAN EXPRESS|DISCOVER|DEBIT|CREDIT)`),
	regexp.MustCompile(`(?i)(CASH|CHECK|MONEY ORDER|GIFT CARD|STORE CREDIT)`),
	regexp.MustCompile(`(?i)(APPLE PAY|GOOGLE PAY|SAMSUNG PAY|PAYPAL|VENMO|ZELLE)`),
	regexp.MustCompile(`(?i)(DEBIT|CREDIT|CASH|CHECK)`),
}

var paymentNames = map[string]string{
	"VISA":             "Visa",
	"MASTERCARD":       "Mastercard",
	"AMEX":             "American Express",
	"AMERICAN EXPRESS": "American Express",
	"DISCOVER":         "Discover",
	"DEBIT":            "Debit Card",
	"CREDIT":           "Credit Card",
	"CASH":             "Cash",
	"CHECK":            "Check",
	"MONEY ORDER":      "Money Order",
	"GIFT CARD":        "Gift Card",
	"STORE CREDIT":     "Store Credit",
	"APPLE PAY":        "Apple Pay",
	"GOOGLE PAY":       "Google Pay",
	"SAMSUNG PAY":      "Samsung Pay",
	"PAYPAL":           "PayPal",
	"VENMO":            "Venmo",
	"ZELLE":            "Zelle",
}

// ParseReceipt runs the strict deterministic receipt pass. Every field
// extractor must independently succeed; the first failure returns a typed
// ExtractionIncompleteError and the pass produces nothing (all-or-nothing,
// no partial record).
func ParseReceipt(text string) (domain.FieldMap, error) {
	merchant, err := extractMerchantName(text)
	if err != nil {
		return nil, err
	}
	date, err := extractReceiptDate(text)
	if err != nil {
		return nil, err
	}
	total, err := extractTotal(text)
	if err != nil {
		return nil, err
	}
	items, err := extractLineItems(text)
	if err != nil {
		return nil, err
	}
	payment, err := extractPaymentMethod(text)
	if err != nil {
		return nil, err
	}

	return domain.FieldMap{
		"MerchantName":   merchant,
		"DateOfPurchase": date,
		"TotalAmount":    total,
		"LineItems":      items,
		"PaymentMethod":  payment,
	}, nil
}

func extractMerchantName(text string) (string, error) {
	lines := strings.Split(text, "\n")
	for _, re := range merchantPatterns {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := strings.TrimSpace(m[len(m)-1])
			if len(name) >= 2 {
				return name, nil
			}
		}
	}
	return "", &domain.ExtractionIncompleteError{Field: "MerchantName"}
}

func extractReceiptDate(text string) (string, error) {
	for i, re := range datePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			var month, day, year int
			if i == 1 {
				month = monthNames[strings.ToUpper(m[1])[:3]]
				day, _ = strconv.Atoi(m[2])
				year, _ = strconv.Atoi(m[3])
			} else {
				month, _ = strconv.Atoi(m[1])
				day, _ = strconv.Atoi(m[2])
				year, _ = strconv.Atoi(m[3])
				if year < 100 {
					if year < 50 {
						year += 2000
					} else {
						year += 1900
					}
				}
			}
			if !validDate(year, month, day) {
				continue
			}
			return padDate(month, day, year), nil
		}
	}
	return "", &domain.ExtractionIncompleteError{Field: "DateOfPurchase"}
}

func validDate(year, month, day int) bool {
	if year < 1900 || year > 2100 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func padDate(month, day, year int) string {
	return strings.Join([]string{
		pad2(month), pad2(day), strconv.Itoa(year),
	}, "/")
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func extractTotal(text string) (string, error) {
	lines := strings.Split(text, "\n")
	// Total-labelled lines are tried first, then any amount-looking line.
	for _, re := range totalPatterns {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			amount, err := strconv.ParseFloat(m[1], 64)
			if err != nil || amount < 0.01 || amount > 9999.99 {
				continue
			}
			return m[1], nil
		}
	}
	return "", &domain.ExtractionIncompleteError{Field: "TotalAmount"}
}

func extractLineItems(text string) ([]domain.LineItem, error) {
	var items []domain.LineItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}
		if isSummaryLine(line) {
			continue
		}

		for _, re := range itemPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			var item domain.LineItem
			switch len(m) {
			case 3:
				item = domain.LineItem{Name: cleanItemName(m[1]), Price: m[2]}
			case 4:
				if _, err := strconv.Atoi(m[1]); err == nil {
					item = domain.LineItem{Name: cleanItemName(m[2]), Quantity: m[1], Price: m[3]}
				} else {
					item = domain.LineItem{Name: cleanItemName(m[1]), Quantity: m[2], Price: m[3]}
				}
			default:
				continue
			}

			if len(item.Name) >= 2 {
				items = append(items, item)
			}
			break
		}
	}

	if len(items) == 0 {
		return nil, &domain.ExtractionIncompleteError{Field: "LineItems"}
	}
	log.Printf("extract.ParseReceipt: %d line items", len(items))
	return items, nil
}

func isSummaryLine(line string) bool {
	upper := strings.ToUpper(line)
	for _, word := range itemSkipWords {
		if strings.Contains(upper, word) {
			return true
		}
	}
	return false
}

func cleanItemName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func extractPaymentMethod(text string) (string, error) {
	for _, re := range paymentPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ToUpper(strings.TrimSpace(m[1]))
		if normalized, ok := paymentNames[raw]; ok {
			return normalized, nil
		}
		return titleCase(raw), nil
	}
	return "", &domain.ExtractionIncompleteError{Field: "PaymentMethod"}
}
