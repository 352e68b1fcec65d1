// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the certificate delivery service.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultSMTPHost   = "smtp.titan.email"
	defaultSMTPPort   = 465
	defaultHTTPListen = ":8080"
	defaultFromName   = "Certificates"
)

// ErrMissingSecret indicates a required credential is absent. Surfaced at
// startup so a misconfigured service never reaches the first delivery.
var ErrMissingSecret = errors.New("config: missing required secret")

// Config holds the complete application configuration.
type Config struct {
	SMTP    SMTPConfig    `yaml:"smtp"`
	Sender  SenderConfig  `yaml:"sender"`
	HTTP    HTTPConfig    `yaml:"http"`
	Sentry  SentryConfig  `yaml:"sentry"`
	Logging LoggingConfig `yaml:"logging"`
}

// SMTPConfig holds the submission endpoint and its credentials. The
// connection is implicit TLS from the first byte; port 465 is the
// standard SMTPS port.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Port     int    `yaml:"port"`
}

// SenderConfig holds the From identity stamped on every outgoing email.
type SenderConfig struct {
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// SentryConfig holds error reporting configuration. An empty DSN disables
// reporting.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible
// defaults. Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values.
	cfg.applyEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that everything a delivery needs is present. It runs at
// startup: a service missing its SMTP credentials must fail before it
// accepts a single request, not on the first send.
func (c *Config) Validate() error {
	if c.SMTP.Username == "" {
		return fmt.Errorf("%w: SMTP_USERNAME", ErrMissingSecret)
	}
	if c.SMTP.Password == "" {
		return fmt.Errorf("%w: SMTP_PASSWORD", ErrMissingSecret)
	}
	if c.Sender.FromEmail == "" {
		return fmt.Errorf("%w: FROM_EMAIL", ErrMissingSecret)
	}
	if _, err := mail.ParseAddress(c.Sender.FromEmail); err != nil {
		return fmt.Errorf("config: invalid FROM_EMAIL %q: %w", c.Sender.FromEmail, err)
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("config: invalid SMTP port %d", c.SMTP.Port)
	}
	return nil
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.SMTP.Host = defaultSMTPHost
	c.SMTP.Port = defaultSMTPPort
	c.HTTP.Listen = defaultHTTPListen
	c.Sender.FromName = defaultFromName
	c.Logging.Level = "info"
	c.Sentry.Environment = "production"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}

	if v := os.Getenv("FROM_NAME"); v != "" {
		c.Sender.FromName = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		c.Sender.FromEmail = v
	}

	if v := os.Getenv("HTTP_LISTEN"); v != "" {
		c.HTTP.Listen = v
	}

	if v := os.Getenv("SENTRY_DSN"); v != "" {
		c.Sentry.DSN = v
	}
	if v := os.Getenv("SENTRY_ENVIRONMENT"); v != "" {
		c.Sentry.Environment = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
