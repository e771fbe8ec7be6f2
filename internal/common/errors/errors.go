// Package errors provides standardized error handling for the pipeline
// and the roster API.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Extraction errors
	ErrCodeSourceUnreachable ErrorCode = "SOURCE_UNREACHABLE"
	ErrCodeSourceBadResponse ErrorCode = "SOURCE_BAD_RESPONSE"
	ErrCodeExtractionEmpty   ErrorCode = "EXTRACTION_EMPTY"

	// Delivery errors
	ErrCodeDeliveryFailed     ErrorCode = "DELIVERY_FAILED"
	ErrCodeDeliveryConflict   ErrorCode = "DELIVERY_CONFLICT"
	ErrCodeUnexpectedStatus   ErrorCode = "UNEXPECTED_STATUS"
	ErrCodeTransportTransient ErrorCode = "TRANSPORT_TRANSIENT"

	// Storage errors
	ErrCodeRecordNotFound  ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeDuplicateRecord ErrorCode = "DUPLICATE_RECORD"
	ErrCodeStorageFailed   ErrorCode = "STORAGE_FAILED"

	// API errors
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Webhook errors
	ErrCodeWebhookDeliveryFailed ErrorCode = "WEBHOOK_DELIVERY_FAILED"
	ErrCodeQueueFull             ErrorCode = "QUEUE_FULL"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewSourceUnreachableError creates a retryable extraction transport error.
func NewSourceUnreachableError(page int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceUnreachable,
		Message:   "Source API unreachable",
		Details:   fmt.Sprintf("page %d: %v", page, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceBadResponseError creates a non-retryable extraction error for
// unexpected status codes or undecodable bodies.
func NewSourceBadResponseError(page int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceBadResponse,
		Message:   "Source API returned an unusable response",
		Details:   fmt.Sprintf("page %d: %s", page, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionEmptyError signals that a batch produced no items and the
// pipeline must abort before any delivery.
func NewExtractionEmptyError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionEmpty,
		Message:   "Extraction returned no items",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedStatusError creates a retryable delivery error for an
// unexpected HTTP status.
func NewUnexpectedStatusError(statusCode int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedStatus,
		Message:   fmt.Sprintf("Unexpected HTTP status %d", statusCode),
		Details:   body,
		Retryable: true,
		Metadata:  map[string]interface{}{"statusCode": statusCode},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable delivery transport error.
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportTransient,
		Message:   "Transport failure",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error.
func NewRecordNotFoundError(kind string, id interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   fmt.Sprintf("%s not found", kind),
		Details:   fmt.Sprintf("id: %v", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateRecordError creates a non-retryable conflict error.
func NewDuplicateRecordError(kind string, id interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateRecord,
		Message:   fmt.Sprintf("%s already exists", kind),
		Details:   fmt.Sprintf("id: %v", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable persistence error.
func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Storage operation failed",
		Details:   fmt.Sprintf("%s: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a non-retryable credential error.
func NewUnauthorizedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Invalid or missing API token",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable request validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookDeliveryError wraps a failed best-effort webhook post. It is
// logged and swallowed, never retried.
func NewWebhookDeliveryError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookDeliveryFailed,
		Message:   "Webhook delivery failed",
		Details:   fmt.Sprintf("%s: %v", url, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
