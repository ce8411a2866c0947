package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error kinds used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Ledger and billing error kinds
	ErrInvalidAmount                = new(ErrCodeInvalidAmount, "amount must be positive")
	ErrInsufficientBalance          = new(ErrCodeInsufficientBalance, "insufficient balance")
	ErrInsufficientAvailableBalance = new(ErrCodeInsufficientAvailableBalance, "insufficient available balance")
	ErrWouldGoNegative              = new(ErrCodeWouldGoNegative, "adjustment would drive balance below zero")
	ErrPricingNotConfigured         = new(ErrCodePricingNotConfigured, "no active pricing configured")
	ErrTenantLocked                 = new(ErrCodeTenantLocked, "tenant subscription is locked")
	ErrDuplicateInvoicePeriod       = new(ErrCodeDuplicateInvoicePeriod, "period already invoiced")

	// maps error kinds to http status codes
	statusCodeMap = map[error]int{
		ErrNotFound:                     http.StatusNotFound,
		ErrAlreadyExists:                http.StatusConflict,
		ErrValidation:                   http.StatusBadRequest,
		ErrInvalidOperation:             http.StatusBadRequest,
		ErrPermissionDenied:             http.StatusForbidden,
		ErrDatabase:                     http.StatusInternalServerError,
		ErrSystem:                       http.StatusInternalServerError,
		ErrInvalidAmount:                http.StatusBadRequest,
		ErrInsufficientBalance:          http.StatusPaymentRequired,
		ErrInsufficientAvailableBalance: http.StatusPaymentRequired,
		ErrWouldGoNegative:              http.StatusBadRequest,
		ErrPricingNotConfigured:         http.StatusNotFound,
		ErrTenantLocked:                 http.StatusForbidden,
		ErrDuplicateInvoicePeriod:       http.StatusConflict,
	}
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"

	ErrCodeInvalidAmount                = "invalid_amount"
	ErrCodeInsufficientBalance          = "insufficient_balance"
	ErrCodeInsufficientAvailableBalance = "insufficient_available_balance"
	ErrCodeWouldGoNegative              = "would_go_negative"
	ErrCodePricingNotConfigured         = "pricing_not_configured"
	ErrCodeTenantLocked                 = "tenant_locked"
	ErrCodeDuplicateInvoicePeriod       = "duplicate_invoice_period"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInsufficientBalance checks if an error is an insufficient balance error
func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsPricingNotConfigured checks if an error is a pricing not configured error
func IsPricingNotConfigured(err error) bool {
	return errors.Is(err, ErrPricingNotConfigured)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
