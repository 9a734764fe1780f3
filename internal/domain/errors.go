package domain

import (
	"fmt"
)

// Error codes for different failure scenarios
const (
	ErrInvalidInput  = "INVALID_INPUT"
	ErrValidation    = "VALIDATION_ERROR"
	ErrRecordSkipped = "RECORD_SKIPPED"
	ErrBloodTypeCode = "BLOOD_TYPE_PARSING_ERROR"
	ErrIngestion     = "INGESTION_ERROR"
	ErrAudit         = "AUDIT_ERROR"
)

// InvalidInputError represents a biometric input the PHM calculator cannot
// evaluate: a non-positive numeric field or an unrecognized gender. It is
// raised by the calculator and caught at the match-builder boundary.
type InvalidInputError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: invalid input for field '%s': %s", ErrInvalidInput, e.Field, e.Message)
}

// NewInvalidInputError creates a new InvalidInputError
func NewInvalidInputError(field, message string, value interface{}) *InvalidInputError {
	return &InvalidInputError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ValidationError represents a fatal input validation failure, such as an
// incomplete donor profile. There is nothing to rank against, so it aborts
// the whole run.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation error for field '%s': %s", ErrValidation, e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// SkippedRecord reports one recipient that failed validation during a
// matching run. Non-fatal: the engine continues with the rest of the batch
// and returns the manifest so the caller can report it.
type SkippedRecord struct {
	RecipientID   string `json:"recipient_id"`
	RecipientName string `json:"recipient_name,omitempty"`
	Field         string `json:"field,omitempty"`
	Reason        string `json:"reason"`
}

// String renders the skip entry for reports and logs.
func (s SkippedRecord) String() string {
	id := s.RecipientID
	if id == "" {
		id = "(no id)"
	}
	return fmt.Sprintf("%s: %s", id, s.Reason)
}
