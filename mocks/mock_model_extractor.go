package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dociq/internal/domain"
)

// MockModelExtractor is a mock implementation of port.ModelExtractor.
type MockModelExtractor struct {
	mock.Mock
}

func (m *MockModelExtractor) Extract(ctx context.Context, text string, docType domain.DocumentType) (domain.FieldMap, error) {
	args := m.Called(ctx, text, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.FieldMap), args.Error(1)
}
