package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dociq/internal/domain"
	"dociq/internal/pipeline"
	"dociq/internal/schema"
	"dociq/mocks"
)

func TestRunner_ProcessFile(t *testing.T) {
	source := new(mocks.MockTextSource)
	source.On("Extract", mock.Anything, "/in/scan.txt").Return(receiptText, nil).Once()

	writer := new(mocks.MockResultWriter)
	writer.On("Write", mock.Anything, "scan.json", domain.DocTypeReceipt, mock.Anything).Return(nil).Once()

	model := new(mocks.MockModelExtractor)
	runner := pipeline.NewRunner(source, pipeline.NewCascade(model, 2, time.Second), schema.NewValidator(schema.NewRegistry()), writer)

	result, err := runner.ProcessFile(context.Background(), "/in/scan.txt", domain.DocTypeReceipt)
	require.NoError(t, err)

	assert.False(t, result.ModelInvoked)
	assert.Equal(t, "WALMART", result.Record["MerchantName"])
	// Validation fills the optional schema fields on the final record.
	assert.Equal(t, false, result.Record["DiscrepancyWarning"])
	_, present := result.Record["Subtotal"]
	assert.True(t, present)

	source.AssertExpectations(t)
	writer.AssertExpectations(t)
	model.AssertNotCalled(t, "Extract")
}

func TestRunner_ProcessFileFlagsDiscrepancy(t *testing.T) {
	text := `WALMART
01/15/2024
Milk 3.99
Bread 2.49
TOTAL $20.00
VISA CARD`

	source := new(mocks.MockTextSource)
	source.On("Extract", mock.Anything, mock.Anything).Return(text, nil)

	writer := new(mocks.MockResultWriter)
	writer.On("Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	runner := pipeline.NewRunner(source, pipeline.NewCascade(new(mocks.MockModelExtractor), 0, 0),
		schema.NewValidator(schema.NewRegistry()), writer)

	result, err := runner.ProcessFile(context.Background(), "/in/scan.txt", domain.DocTypeReceipt)
	require.NoError(t, err)
	assert.Equal(t, true, result.Record["DiscrepancyWarning"])
}

func TestRunner_ValidationFailureNotWritten(t *testing.T) {
	source := new(mocks.MockTextSource)
	// Every line is contact noise, so no name is found deterministically.
	source.On("Extract", mock.Anything, mock.Anything).Return("jane.doe@example.com\n555 123 4567", nil)

	model := new(mocks.MockModelExtractor)
	// Model also comes back without the required FullName.
	model.On("Extract", mock.Anything, mock.Anything, domain.DocTypeResume).
		Return(domain.FieldMap{"FullName": nil}, nil)

	writer := new(mocks.MockResultWriter)
	runner := pipeline.NewRunner(source, pipeline.NewCascade(model, 0, 0), schema.NewValidator(schema.NewRegistry()), writer)

	_, err := runner.ProcessFile(context.Background(), "/in/cv.txt", domain.DocTypeResume)

	var missing *domain.RequiredFieldMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "FullName", missing.Field)
	writer.AssertNotCalled(t, "Write")
}

func TestResultName(t *testing.T) {
	assert.Equal(t, "scan.json", pipeline.ResultName("/data/input/scan.jpg"))
	assert.Equal(t, "receipt_01.json", pipeline.ResultName("receipt_01.pdf"))
	assert.Equal(t, "notes.json", pipeline.ResultName("notes.txt"))
}
