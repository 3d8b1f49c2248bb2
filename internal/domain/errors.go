package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Analytics specific errors
	ErrAnalyticsNotFound ErrorCode = "ANALYTICS_NOT_FOUND"
	ErrEmptySubmission   ErrorCode = "EMPTY_SUBMISSION"
	ErrLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	ErrStorageError      ErrorCode = "STORAGE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewEmptySubmissionError() *DomainError {
	return NewError(ErrEmptySubmission, "submission must contain at least one question", nil)
}

func NewAnalyticsNotFoundError(studentID string) *DomainError {
	return NewError(ErrAnalyticsNotFound, fmt.Sprintf("no analytics found for student: %s", studentID), nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to generate insights with LLM service", err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(ErrStorageError, message, err)
}
