package schema

import (
	"fmt"

	"dociq/internal/domain"
)

// Validator enforces a Registry's field contracts and fills defaults for
// absent optional fields. It is a pure function over its inputs: the input
// map is never mutated and no other side effects occur.
type Validator struct {
	registry *Registry
}

// NewValidator creates a Validator over the given schema registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks required fields, verifies receipt line items, and
// returns a fully-populated record guaranteed to carry every
// schema-declared key. The returned record is a fresh map.
func (v *Validator) Validate(data domain.FieldMap, docType domain.DocumentType) (domain.FieldMap, error) {
	s, ok := v.registry.Get(docType)
	if !ok {
		return nil, domain.ErrUnsupportedDocType
	}

	for _, field := range s.Required {
		val, present := data[field]
		if !present || val == nil {
			return nil, &domain.RequiredFieldMissingError{DocType: docType, Field: field}
		}
	}

	if docType == domain.DocTypeReceipt {
		if err := validateLineItems(data["LineItems"]); err != nil {
			return nil, err
		}
	}

	out := make(domain.FieldMap, len(s.Required)+len(s.Optional))
	for _, field := range s.Required {
		out[field] = data[field]
	}
	for _, field := range s.Optional {
		if val, present := data[field]; present && val != nil {
			out[field] = val
		} else {
			out[field] = s.DefaultFor(field)
		}
	}

	return out, nil
}

// validateLineItems checks that every element is an object with a
// non-empty name and a non-null price. A single bad item rejects the
// whole record.
func validateLineItems(raw interface{}) error {
	items, ok := raw.([]interface{})
	if !ok {
		// Typed line items (from the deterministic extractor) arrive as
		// []domain.LineItem and are checked directly.
		typed, tok := raw.([]domain.LineItem)
		if !tok {
			return &domain.MalformedLineItemError{Index: 0, Reason: fmt.Sprintf("LineItems is %T, not a list", raw)}
		}
		for i, item := range typed {
			if item.Name == "" {
				return &domain.MalformedLineItemError{Index: i, Reason: "missing name"}
			}
			if item.Price == nil {
				return &domain.MalformedLineItemError{Index: i, Reason: "missing price"}
			}
		}
		return nil
	}

	for i, el := range items {
		obj, ok := el.(map[string]interface{})
		if !ok {
			return &domain.MalformedLineItemError{Index: i, Reason: fmt.Sprintf("item is %T, not an object", el)}
		}
		name, _ := obj["name"].(string)
		if name == "" {
			return &domain.MalformedLineItemError{Index: i, Reason: "missing name"}
		}
		if price, present := obj["price"]; !present || price == nil {
			return &domain.MalformedLineItemError{Index: i, Reason: "missing price"}
		}
	}
	return nil
}
