package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/certsend/certsend/pkg/mimemsg"
	"github.com/certsend/certsend/pkg/payload"
	"github.com/certsend/certsend/pkg/sanitizer"
	"github.com/certsend/certsend/pkg/smtpclient"
)

// Mailer is the delivery orchestrator. It composes validation, rendering,
// message building, and the transport Sender, and owns the retry loop.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	log      *slog.Logger
	cfg      Config
	policy   retryPolicy
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mailer) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Mailer. The renderer is typically DefaultRenderer(); the
// sender is the SMTP adapter in production and a mock in tests.
func New(sender Sender, renderer *Renderer, cfg Config, opts ...Option) *Mailer {
	cfg = cfg.withDefaults()
	m := &Mailer{
		sender:   sender,
		renderer: renderer,
		cfg:      cfg,
		log:      slog.New(slog.DiscardHandler),
		policy: retryPolicy{
			maxAttempts: cfg.MaxAttempts,
			baseDelay:   cfg.RetryDelay,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// templateData is what the notification template sees.
type templateData struct {
	ParticipantName   string
	Note              string
	CertificateNumber string
}

// DeliverCertificate validates, renders, builds, and sends one certificate
// email, retrying transient failures with linearly increasing delays. A
// validation failure aborts immediately and is never retried.
func (m *Mailer) DeliverCertificate(ctx context.Context, req DeliveryRequest) error {
	if _, err := mail.ParseAddress(req.To); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidRecipient, req.To, err)
	}

	res := payload.Validate(req.Document, m.cfg.Limits)
	for _, warning := range res.Warnings {
		m.log.WarnContext(ctx, "certificate payload warning",
			slog.String("recipient", req.To),
			slog.String("warning", warning),
		)
	}
	if !res.OK {
		m.log.ErrorContext(ctx, "certificate payload rejected",
			slog.String("recipient", req.To),
			slog.Any("errors", res.Errors),
		)
		return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(res.Errors, "; "))
	}

	msg, err := m.buildMessage(req, res)
	if err != nil {
		return err
	}

	var (
		lastErr          error
		protocolFailures int
	)
	for attempt := 1; ; attempt++ {
		err := m.sender.Send(ctx, msg)
		if err == nil {
			m.log.InfoContext(ctx, "certificate delivered",
				slog.String("recipient", req.To),
				slog.String("certificate", req.CertificateNumber),
				slog.Int("attempt", attempt),
			)
			return nil
		}

		lastErr = err
		if errors.Is(err, smtpclient.ErrProtocol) {
			protocolFailures++
		}

		delay, retry := m.policy.Decide(Attempt{
			Number:           attempt,
			Err:              err,
			ProtocolFailures: protocolFailures,
		})
		m.log.WarnContext(ctx, "delivery attempt failed",
			slog.String("recipient", req.To),
			slog.Int("attempt", attempt),
			slog.Bool("retrying", retry),
			slog.String("error", err.Error()),
		)
		if !retry {
			break
		}
		if err := sleepContext(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	m.log.ErrorContext(ctx, "certificate delivery failed",
		slog.String("recipient", req.To),
		slog.String("certificate", req.CertificateNumber),
		slog.String("error", lastErr.Error()),
	)
	return errors.Join(ErrDeliveryFailed, lastErr)
}

// DeliverBatch delivers to each recipient in submission order with an
// inter-job delay, isolating failures per recipient.
func (m *Mailer) DeliverBatch(ctx context.Context, reqs []DeliveryRequest, interDelay time.Duration) BatchResult {
	var result BatchResult
	for i, req := range reqs {
		if i > 0 {
			if err := sleepContext(ctx, interDelay); err != nil {
				result.Failures = append(result.Failures, RecipientError{Recipient: req.To, Err: err})
				continue
			}
		}
		if err := m.DeliverCertificate(ctx, req); err != nil {
			result.Failures = append(result.Failures, RecipientError{Recipient: req.To, Err: err})
			continue
		}
		result.Succeeded++
	}

	m.log.InfoContext(ctx, "batch delivery finished",
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", len(result.Failures)),
	)
	return result
}

// buildMessage renders the template and assembles the outbound message.
// The attachment carries res.Cleaned: the exact base64 representation that
// passed validation, with no second normalization pass.
func (m *Mailer) buildMessage(req DeliveryRequest, res payload.Result) (mimemsg.Message, error) {
	data := templateData{
		ParticipantName:   strings.TrimSpace(req.ParticipantName),
		Note:              sanitizer.StripHTML(req.Note),
		CertificateNumber: req.CertificateNumber,
	}

	rendered, err := m.renderer.Render(DefaultLayout, CertificateTemplate, data)
	if err != nil {
		return mimemsg.Message{}, err
	}

	subject := req.Subject
	if subject == "" {
		if fromMeta, ok := rendered.Metadata["Subject"].(string); ok {
			subject = fromMeta
		} else {
			subject = m.cfg.FallbackSubject
		}
	}
	subject, err = m.processSubject(subject, data)
	if err != nil {
		return mimemsg.Message{}, fmt.Errorf("%w: subject: %v", ErrRenderFailed, err)
	}

	return mimemsg.Message{
		From:     Recipient(m.cfg.FromName, m.cfg.FromEmail),
		To:       req.To,
		Subject:  subject,
		HTMLBody: rendered.HTML,
		Attachment: &mimemsg.Attachment{
			Filename:      mimemsg.DeriveFilename(req.ParticipantName, req.Document.MediaType),
			MediaType:     req.Document.MediaType,
			Base64Content: res.Cleaned,
		},
	}, nil
}

// processSubject runs the subject line through text/template so frontmatter
// subjects can reference template data.
func (m *Mailer) processSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
