// internal/auction/errors.go
package auction

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors for transport and handling.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthorization
	KindInsufficientFunds
	KindPersistence
)

// Error is a typed engine error carrying a machine-readable reason code.
// InsufficientFunds errors also carry the computed available balance so the
// client can display it.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Balance float64
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the classification of an engine error, or 0 for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// AsEngineError unwraps err into *Error if possible.
func AsEngineError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func validationError(code, format string, v ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, v...)}
}

func conflictError(code, format string, v ...interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, v...)}
}

func authorizationError(code, format string, v ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: fmt.Sprintf(format, v...)}
}

func insufficientFundsError(balance float64) *Error {
	return &Error{
		Kind:    KindInsufficientFunds,
		Code:    "insufficient_funds",
		Message: fmt.Sprintf("Insufficient funds! Available: %.2f Cr", balance),
		Balance: balance,
	}
}

func persistenceError(op string, cause error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Code:    "persistence_failed",
		Message: fmt.Sprintf("failed to persist %s", op),
		cause:   cause,
	}
}
