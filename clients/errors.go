package clients

import "errors"

var (
	ErrClientClosed   = errors.New("wallet client is closed")
	ErrNotConnected   = errors.New("wallet not connected")
	ErrRequestExpired = errors.New("transaction request expired")
	ErrUserRejected   = errors.New("user rejected the transaction")
	ErrNoMessages     = errors.New("transaction request has no messages")
)
