// Package errors defines the typed application error used across handlers so
// callers can tell a business-rule rejection apart from a collaborator or
// storage failure.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode classifies an application error.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Business-rule rejections: the action was understood and refused by the
	// game economy, not failed by infrastructure.
	ErrCodeRejected            ErrorCode = "REJECTED"
	ErrCodeInsufficientPoints  ErrorCode = "INSUFFICIENT_POINTS"
	ErrCodePlotOccupied        ErrorCode = "PLOT_OCCUPIED"
	ErrCodePlotEmpty           ErrorCode = "PLOT_EMPTY"
	ErrCodeNotHarvestable      ErrorCode = "NOT_HARVESTABLE"
	ErrCodeSeedNotInInventory  ErrorCode = "SEED_NOT_IN_INVENTORY"
	ErrCodeAlreadyCompleted    ErrorCode = "SUBTASK_ALREADY_COMPLETED"
	ErrCodeNotEnoughProduce    ErrorCode = "NOT_ENOUGH_PRODUCE"
	ErrCodeUnknownSeed         ErrorCode = "UNKNOWN_SEED"
	ErrCodeUserBanned          ErrorCode = "USER_BANNED"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeTaskNotFound        ErrorCode = "TASK_NOT_FOUND"

	// Infrastructure failures.
	ErrCodeStorage     ErrorCode = "STORAGE_ERROR"
	ErrCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
)

// AppError is a typed application error.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRejection reports whether the error is a business-rule rejection rather
// than an infrastructure failure.
func (e *AppError) IsRejection() bool {
	switch e.Code {
	case ErrCodeRejected, ErrCodeInsufficientPoints, ErrCodePlotOccupied,
		ErrCodePlotEmpty, ErrCodeNotHarvestable, ErrCodeSeedNotInInventory,
		ErrCodeAlreadyCompleted, ErrCodeNotEnoughProduce:
		return true
	}
	return false
}

// WithDetail attaches a key/value to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID attaches the request id to the error.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// NewStorageError wraps a durable-storage failure.
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("Storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewExternalAPIError wraps a collaborator failure.
func NewExternalAPIError(service string, err error) *AppError {
	return Wrap(err, ErrCodeExternalAPI, fmt.Sprintf("External service failed: %s", service)).
		WithDetail("service", service)
}

// AsAppError casts an error to AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
