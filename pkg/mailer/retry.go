package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/certsend/certsend/pkg/smtpclient"
)

// Attempt is the input to a retry decision: which attempt just failed,
// with what, and how many protocol-level failures the delivery has
// accumulated so far.
type Attempt struct {
	Err              error
	Number           int
	ProtocolFailures int
}

// retryPolicy decides retry-with-delay versus give-up. It is pure: no
// clocks, no sockets, no sleeping.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

// Decide returns the delay before the next attempt and whether to retry.
// The delay grows linearly with the attempt number.
func (p retryPolicy) Decide(a Attempt) (time.Duration, bool) {
	if a.Err == nil || a.Number >= p.maxAttempts {
		return 0, false
	}
	if !retryable(a.Err, a.ProtocolFailures) {
		return 0, false
	}
	return time.Duration(a.Number) * p.baseDelay, true
}

// retryable classifies a delivery error per the taxonomy: connection
// failures and 4xx rejections retry, 5xx rejections are permanent,
// protocol errors retry once, authentication rejections retry within the
// attempt budget before being surfaced as configuration-likely fatal.
func retryable(err error, protocolFailures int) bool {
	var reject *smtpclient.RejectError
	switch {
	case errors.As(err, &reject):
		return reject.Temporary()
	case errors.Is(err, smtpclient.ErrProtocol):
		return protocolFailures <= 1
	case errors.Is(err, smtpclient.ErrConnect):
		return true
	case errors.Is(err, smtpclient.ErrAuth):
		return true
	default:
		return false
	}
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
