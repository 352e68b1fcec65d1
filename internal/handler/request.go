package handler

import (
	"fmt"
	"net/mail"

	"github.com/certsend/certsend/pkg/mailer"
	"github.com/certsend/certsend/pkg/payload"
)

// SendRequest is the wire shape of a single certificate delivery order.
// CertificateURL carries the PDF inline as a base64 data URL.
type SendRequest struct {
	To                string `json:"to"`
	Subject           string `json:"subject"`
	Message           string `json:"message"`
	ParticipantName   string `json:"participant_name"`
	CertificateNumber string `json:"certificate_number"`
	CertificateURL    string `json:"certificate_url"`
}

// BatchSendRequest queues one sequential delivery run over many
// recipients.
type BatchSendRequest struct {
	Recipients []SendRequest `json:"recipients"`
}

// toDelivery converts the wire shape into a delivery order, collecting
// every shape problem instead of stopping at the first. Payload content
// checks happen later, in the orchestrator; this is shape only.
func (r SendRequest) toDelivery() (mailer.DeliveryRequest, []string) {
	var problems []string

	if r.To == "" {
		problems = append(problems, "to is required")
	} else if _, err := mail.ParseAddress(r.To); err != nil {
		problems = append(problems, fmt.Sprintf("to is not a valid email address: %v", err))
	}
	if r.ParticipantName == "" {
		problems = append(problems, "participant_name is required")
	}

	var doc payload.EncodedDocument
	if r.CertificateURL == "" {
		problems = append(problems, "certificate_url is required")
	} else {
		var err error
		doc, err = payload.ParseDataURL(r.CertificateURL)
		if err != nil {
			problems = append(problems, fmt.Sprintf("certificate_url: %v", err))
		}
	}

	return mailer.DeliveryRequest{
		To:                r.To,
		Subject:           r.Subject,
		Note:              r.Message,
		ParticipantName:   r.ParticipantName,
		CertificateNumber: r.CertificateNumber,
		Document:          doc,
	}, problems
}
