package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	withField := &ValidationError{Field: "tenure", Message: "must be positive"}
	assert.Equal(t, "validation failed for field 'tenure': must be positive", withField.Error())

	withoutField := &ValidationError{Message: "bad request body"}
	assert.Equal(t, "validation failed: bad request body", withoutField.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("phone_number", "already registered")

	assert.ErrorIs(t, err, ErrValidation)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "phone_number", validationErr.Field)
	assert.Equal(t, "already registered", validationErr.Message)
}

func TestAppErrorMessage(t *testing.T) {
	withCode := &AppError{Code: "DB_ERROR", Message: "query failed"}
	assert.Equal(t, "[DB_ERROR] query failed", withCode.Error())

	withoutCode := &AppError{Message: "something broke"}
	assert.Equal(t, "something broke", withoutCode.Error())
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause, "failed to save loan")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "failed to save loan", appErr.Message)
}
