package types

import "errors"

// Error codes
const (
	ErrCodeInitializationFailure = "INITIALIZATION_FAILURE"
	ErrCodeNotInitialized        = "NOT_INITIALIZED"
	ErrCodeNoAccount             = "NO_ACCOUNT"
	ErrCodeTransactionFailure    = "TRANSACTION_FAILURE"
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
	ErrCodeExpiredRequest        = "EXPIRED_REQUEST"
	ErrCodeConfigError           = "CONFIG_ERROR"
	ErrCodeBalanceLookupFailed   = "BALANCE_LOOKUP_FAILED"
)

// TonPayError carries a machine readable code next to the message.
// Two errors match under errors.Is when their codes are equal.
type TonPayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

var (
	ErrInitializationFailure = &TonPayError{Code: ErrCodeInitializationFailure, Message: "wallet client initialization failed"}
	ErrNotInitialized        = &TonPayError{Code: ErrCodeNotInitialized, Message: "wallet client is not initialized"}
	ErrNoAccount             = &TonPayError{Code: ErrCodeNoAccount, Message: "no account connected"}
	ErrTransactionFailure    = &TonPayError{Code: ErrCodeTransactionFailure, Message: "transaction submission failed"}
	ErrInvalidRequest        = &TonPayError{Code: ErrCodeInvalidRequest, Message: "invalid payment request"}
	ErrExpiredRequest        = &TonPayError{Code: ErrCodeExpiredRequest, Message: "payment request expired"}
	ErrConfig                = &TonPayError{Code: ErrCodeConfigError, Message: "invalid configuration"}
	ErrBalanceLookupFailed   = &TonPayError{Code: ErrCodeBalanceLookupFailed, Message: "balance lookup failed"}
)

func NewError(code, message string, cause error) *TonPayError {
	return &TonPayError{Code: code, Message: message, Cause: cause}
}

func (e *TonPayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TonPayError) Unwrap() error {
	return e.Cause
}

func (e *TonPayError) Is(target error) bool {
	t, ok := target.(*TonPayError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first TonPayError in the chain, or "".
func CodeOf(err error) string {
	var tpe *TonPayError
	if errors.As(err, &tpe) {
		return tpe.Code
	}
	return ""
}
