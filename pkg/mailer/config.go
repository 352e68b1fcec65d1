package mailer

import (
	"time"

	"github.com/certsend/certsend/pkg/payload"
)

const (
	defaultMaxAttempts     = 3
	defaultRetryDelay      = time.Second
	defaultFallbackSubject = "Your Certificate"
)

// Config holds orchestrator configuration.
type Config struct {
	FromName        string
	FromEmail       string
	FallbackSubject string
	Limits          payload.Limits
	MaxAttempts     int
	RetryDelay      time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.FallbackSubject == "" {
		cfg.FallbackSubject = defaultFallbackSubject
	}
	if cfg.Limits == (payload.Limits{}) {
		cfg.Limits = payload.DefaultLimits()
	}
	return cfg
}
