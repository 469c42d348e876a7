package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAlertNotFound      = errors.New("alert not found")
	ErrEscalationNotFound = errors.New("escalation not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoRegionalManager  = errors.New("no active manager for region")
	ErrRunInProgress      = errors.New("daily checks already running")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrCodeAlertNotFound      = "ALERT_NOT_FOUND"
	ErrCodeEscalationNotFound = "ESCALATION_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeNoRegionalManager  = "NO_REGIONAL_MANAGER"
	ErrCodeRunInProgress      = "RUN_IN_PROGRESS"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeLockError          = "LOCK_ERROR"
)

// Wrap common errors with business context
func WrapAccountNotFound(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotFound,
		fmt.Sprintf("Account with ID %s not found", accountID),
		ErrAccountNotFound,
	)
}

func WrapAlertNotFound(alertID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlertNotFound,
		fmt.Sprintf("Alert with ID %s not found", alertID),
		ErrAlertNotFound,
	)
}

func WrapEscalationNotFound(escalationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeEscalationNotFound,
		fmt.Sprintf("Escalation with ID %s not found", escalationID),
		ErrEscalationNotFound,
	)
}

func WrapNoRegionalManager(regionID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoRegionalManager,
		fmt.Sprintf("No active collections manager found for region %s", regionID),
		ErrNoRegionalManager,
	)
}

func WrapRunInProgress() *BusinessError {
	return NewBusinessError(
		ErrCodeRunInProgress,
		"A daily checks run is already in progress",
		ErrRunInProgress,
	)
}

func WrapInvalidTransition(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Cannot transition alert from %s to %s", from, to),
		ErrInvalidTransition,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapLockError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeLockError,
		"run lock operation failed",
		err,
	)
}
