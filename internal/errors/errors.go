// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound     = errors.New("trade not found")
	ErrAlreadyClosed     = errors.New("trade already closed")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSessionExpired    = errors.New("session expired")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
)

// ValidationError represents a missing or malformed field on save.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// RowError represents a single unparseable row in a bulk import.
// Imports skip and log these at row granularity instead of aborting.
type RowError struct {
	Source string
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row error [%s] row %d: %s", e.Source, e.Row, e.Reason)
}

// NewRowError creates a new RowError.
func NewRowError(source string, row int, reason string) *RowError {
	return &RowError{
		Source: source,
		Row:    row,
		Reason: reason,
	}
}

// SheetsError represents an error from the spreadsheet API.
type SheetsError struct {
	Operation string
	Sheet     string
	Err       error
}

func (e *SheetsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sheets error [%s] %s: %v", e.Operation, e.Sheet, e.Err)
	}
	return fmt.Sprintf("sheets error [%s] %s", e.Operation, e.Sheet)
}

func (e *SheetsError) Unwrap() error {
	return e.Err
}

// NewSheetsError creates a new SheetsError.
func NewSheetsError(operation, sheet string, err error) *SheetsError {
	return &SheetsError{
		Operation: operation,
		Sheet:     sheet,
		Err:       err,
	}
}

// BrokerError represents an error from the broker API.
type BrokerError struct {
	Code    string
	Message string
	Err     error
}

func (e *BrokerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("broker error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("broker error [%s]: %s", e.Code, e.Message)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// NewBrokerError creates a new BrokerError.
func NewBrokerError(code, message string, err error) *BrokerError {
	return &BrokerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AdvisorError represents an error from the AI commentary service.
type AdvisorError struct {
	Operation string
	Err       error
}

func (e *AdvisorError) Error() string {
	return fmt.Sprintf("advisor error [%s]: %v", e.Operation, e.Err)
}

func (e *AdvisorError) Unwrap() error {
	return e.Err
}

// NewAdvisorError creates a new AdvisorError.
func NewAdvisorError(operation string, err error) *AdvisorError {
	return &AdvisorError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
