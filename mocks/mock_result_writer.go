package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dociq/internal/domain"
)

// MockResultWriter is a mock implementation of port.ResultWriter.
type MockResultWriter struct {
	mock.Mock
}

func (m *MockResultWriter) Write(ctx context.Context, name string, docType domain.DocumentType, record domain.FieldMap) error {
	args := m.Called(ctx, name, docType, record)
	return args.Error(0)
}
