package smtpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when an operation requires an earlier
	// state transition that has not happened (connect before authenticate,
	// authenticate before send).
	ErrNotConnected = errors.New("smtpclient: not connected")

	// ErrAlreadyConnected is returned by Connect on a live session.
	ErrAlreadyConnected = errors.New("smtpclient: already connected")

	// ErrConnect covers TLS/socket failures: dial errors, broken writes,
	// read timeouts, and a greeting other than 220.
	ErrConnect = errors.New("smtpclient: connection failed")

	// ErrAuth is returned when the server rejects the credential exchange.
	ErrAuth = errors.New("smtpclient: authentication rejected")

	// ErrProtocol is returned for malformed or unexpected server
	// responses, including a response that never completes within the
	// read budget.
	ErrProtocol = errors.New("smtpclient: unexpected server response")
)

// RejectError is a delivery rejection during the envelope or data exchange,
// carrying the server's full response. Temporary reports the standard SMTP
// split: 4xx is retryable, 5xx is permanent.
type RejectError struct {
	Text string
	Code int
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("smtpclient: delivery rejected with %d: %s", e.Code, e.Text)
}

// Temporary reports whether the rejection is transient (4xx).
func (e *RejectError) Temporary() bool {
	return e.Code >= 400 && e.Code < 500
}
