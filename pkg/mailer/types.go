package mailer

import (
	"fmt"

	"github.com/certsend/certsend/pkg/payload"
)

// DeliveryRequest is one certificate delivery order. Note is untrusted
// caller-supplied text and is stripped to plain text before it reaches the
// template.
type DeliveryRequest struct {
	To                string
	Subject           string
	Note              string
	ParticipantName   string
	CertificateNumber string
	Document          payload.EncodedDocument
}

// RecipientError pairs a failed recipient with its terminal error.
type RecipientError struct {
	Err       error
	Recipient string
}

// BatchResult summarizes a sequential batch delivery. A batch never yields
// an all-or-nothing result; each recipient succeeds or fails on its own.
type BatchResult struct {
	Failures  []RecipientError
	Succeeded int
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
