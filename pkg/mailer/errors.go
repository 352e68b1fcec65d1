package mailer

import "errors"

var (
	// ErrInvalidRecipient indicates the recipient address failed syntax
	// validation before any delivery attempt.
	ErrInvalidRecipient = errors.New("mailer: invalid recipient address")

	// ErrValidationFailed indicates the certificate payload failed
	// integrity validation. Never retried: corrupt input stays corrupt.
	ErrValidationFailed = errors.New("mailer: certificate payload validation failed")

	// ErrTemplateNotFound indicates the notification template is missing.
	ErrTemplateNotFound = errors.New("mailer: template not found")

	// ErrLayoutNotFound indicates the layout file is missing.
	ErrLayoutNotFound = errors.New("mailer: layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("mailer: failed to render template")

	// ErrDeliveryFailed is the terminal outcome after all attempts are
	// exhausted or a permanent rejection was received.
	ErrDeliveryFailed = errors.New("mailer: delivery failed")
)
