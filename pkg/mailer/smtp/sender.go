// Package smtp implements mailer.Sender over the raw SMTP protocol
// client. Each Send performs a full connect/authenticate/send/quit cycle;
// sessions are never reused, so a failed attempt can't leave the next one
// on a half-broken connection.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/certsend/certsend/pkg/mimemsg"
	"github.com/certsend/certsend/pkg/smtpclient"
)

// Sender submits messages over implicit-TLS SMTP.
type Sender struct {
	cfg       Config
	builder   *mimemsg.Builder
	newClient func() *smtpclient.Client
	log       *slog.Logger
}

// Option configures a Sender.
type Option func(*Sender)

// WithLogger attaches a structured logger, shared with the protocol
// client.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sender) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClientFactory replaces the protocol client constructor. Tests use
// this to run sessions against an in-memory fake server.
func WithClientFactory(factory func() *smtpclient.Client) Option {
	return func(s *Sender) {
		if factory != nil {
			s.newClient = factory
		}
	}
}

// New creates an SMTP sender.
func New(cfg Config, opts ...Option) *Sender {
	s := &Sender{
		cfg:     cfg,
		builder: mimemsg.NewBuilder(mimemsg.WithMessageIDHost(cfg.Host)),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newClient == nil {
		s.newClient = func() *smtpclient.Client {
			return smtpclient.New(smtpclient.Config{
				Host:        cfg.Host,
				Port:        cfg.Port,
				HelloName:   cfg.HelloName,
				DialTimeout: cfg.DialTimeout,
				ReadTimeout: cfg.ReadTimeout,
			}, smtpclient.WithLogger(s.log))
		}
	}
	return s
}

// Send implements mailer.Sender: serialize the message, open a fresh
// session, transmit, and tear the session down regardless of outcome.
func (s *Sender) Send(ctx context.Context, msg mimemsg.Message) error {
	raw, err := s.builder.Build(msg)
	if err != nil {
		return err
	}

	envelopeFrom, err := envelopeAddr(msg.From)
	if err != nil {
		return fmt.Errorf("smtp: sender address: %w", err)
	}
	envelopeTo, err := envelopeAddr(msg.To)
	if err != nil {
		return fmt.Errorf("smtp: recipient address: %w", err)
	}

	client := s.newClient()
	defer client.Disconnect()

	if err := client.Connect(ctx); err != nil {
		return err
	}
	if err := client.Authenticate(ctx, s.cfg.Username, s.cfg.Password); err != nil {
		return err
	}
	return client.Send(ctx, envelopeFrom, envelopeTo, raw)
}

// envelopeAddr reduces a header address ("Name <addr>" or bare) to the
// bare address used in MAIL FROM / RCPT TO.
func envelopeAddr(header string) (string, error) {
	addr, err := mail.ParseAddress(header)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}
