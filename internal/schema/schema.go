// Package schema holds the per-document-type field contract: required and
// optional fields, defaults for absent optionals, and the validation and
// reconciliation logic that enforces the contract.
package schema

import (
	"dociq/internal/domain"
)

// FieldSchema is the contract for one document type. Instances are built
// once at startup and never mutated afterwards.
type FieldSchema struct {
	DocType  domain.DocumentType
	Required []string
	Optional []string
	// ListFields default to an empty list when absent; BoolFields default
	// to false; every other optional field defaults to null.
	ListFields map[string]bool
	BoolFields map[string]bool
}

// FieldOrder returns all schema-declared keys, required first, in a stable
// order suitable for serialized output.
func (s *FieldSchema) FieldOrder() []string {
	out := make([]string, 0, len(s.Required)+len(s.Optional))
	out = append(out, s.Required...)
	out = append(out, s.Optional...)
	return out
}

// DefaultFor returns the default value for an absent optional field.
func (s *FieldSchema) DefaultFor(field string) interface{} {
	switch {
	case s.ListFields[field]:
		return []interface{}{}
	case s.BoolFields[field]:
		return false
	default:
		return nil
	}
}

// Registry maps document types to their field schemas. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	schemas map[domain.DocumentType]*FieldSchema
}

// NewRegistry builds the schema table for all supported document types.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[domain.DocumentType]*FieldSchema)}

	r.schemas[domain.DocTypeResume] = &FieldSchema{
		DocType:  domain.DocTypeResume,
		Required: []string{"FullName"},
		Optional: []string{"Email", "PhoneNumber", "Skills", "WorkExperience", "Education"},
		ListFields: map[string]bool{
			"Skills":         true,
			"WorkExperience": true,
			"Education":      true,
		},
	}

	r.schemas[domain.DocTypeLicense] = &FieldSchema{
		DocType:  domain.DocTypeLicense,
		Required: []string{"Name"},
		Optional: []string{"DateOfBirth", "LicenseNumber", "IssuingState", "ExpiryDate"},
	}

	r.schemas[domain.DocTypeReceipt] = &FieldSchema{
		DocType:  domain.DocTypeReceipt,
		Required: []string{"MerchantName", "TotalAmount", "LineItems"},
		Optional: []string{
			"DateOfPurchase", "PaymentMethod", "StoreAddress", "StorePhone",
			"TransactionTime", "ReceiptID", "Subtotal", "Tax",
			"CardLast4Digits", "DiscrepancyWarning",
		},
		ListFields: map[string]bool{"LineItems": true},
		BoolFields: map[string]bool{"DiscrepancyWarning": true},
	}

	return r
}

// Get returns the schema for a document type.
func (r *Registry) Get(docType domain.DocumentType) (*FieldSchema, bool) {
	s, ok := r.schemas[docType]
	return s, ok
}

// CanonicalFields returns the fields the model is expected to return for a
// document type (the full schema key set).
func (r *Registry) CanonicalFields(docType domain.DocumentType) []string {
	s, ok := r.schemas[docType]
	if !ok {
		return nil
	}
	return s.FieldOrder()
}
