package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certsend/certsend/pkg/smtpclient"
)

func TestRetryPolicy_Decide(t *testing.T) {
	t.Parallel()

	policy := retryPolicy{maxAttempts: 3, baseDelay: time.Second}

	tests := []struct {
		name      string
		attempt   Attempt
		wantDelay time.Duration
		wantRetry bool
	}{
		{
			name:      "connect failure on first attempt",
			attempt:   Attempt{Number: 1, Err: smtpclient.ErrConnect},
			wantDelay: time.Second,
			wantRetry: true,
		},
		{
			name:      "delay grows with attempt number",
			attempt:   Attempt{Number: 2, Err: smtpclient.ErrConnect},
			wantDelay: 2 * time.Second,
			wantRetry: true,
		},
		{
			name:    "attempt budget exhausted",
			attempt: Attempt{Number: 3, Err: smtpclient.ErrConnect},
		},
		{
			name:      "transient 4xx rejection",
			attempt:   Attempt{Number: 1, Err: &smtpclient.RejectError{Code: 451, Text: "451 try later"}},
			wantDelay: time.Second,
			wantRetry: true,
		},
		{
			name:    "permanent 5xx rejection",
			attempt: Attempt{Number: 1, Err: &smtpclient.RejectError{Code: 550, Text: "550 no such user"}},
		},
		{
			name:      "first protocol failure",
			attempt:   Attempt{Number: 1, Err: smtpclient.ErrProtocol, ProtocolFailures: 1},
			wantDelay: time.Second,
			wantRetry: true,
		},
		{
			name:    "second protocol failure gives up",
			attempt: Attempt{Number: 2, Err: smtpclient.ErrProtocol, ProtocolFailures: 2},
		},
		{
			name:      "authentication rejection retries within budget",
			attempt:   Attempt{Number: 1, Err: smtpclient.ErrAuth},
			wantDelay: time.Second,
			wantRetry: true,
		},
		{
			name:    "unclassified error is terminal",
			attempt: Attempt{Number: 1, Err: errors.New("template exploded")},
		},
		{
			name:    "no error",
			attempt: Attempt{Number: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			delay, retry := policy.Decide(tt.attempt)
			assert.Equal(t, tt.wantRetry, retry)
			assert.Equal(t, tt.wantDelay, delay)
		})
	}
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	require.NoError(t, sleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sleepContext(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
