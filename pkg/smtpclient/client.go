package smtpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

const (
	crlf = "\r\n"

	// credentialPlaceholder is logged instead of AUTH payloads.
	credentialPlaceholder = "[credentials redacted]"

	defaultDialTimeout    = 10 * time.Second
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultMaxReads       = 32
	defaultWriteChunkSize = 64 << 10
	defaultHelloName      = "localhost"
	quitReadTimeout       = 2 * time.Second
)

// Config describes the submission endpoint and the session's I/O bounds.
type Config struct {
	TLSConfig      *tls.Config
	Host           string
	HelloName      string
	Port           int
	DialTimeout    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxReads       int
	WriteChunkSize int
}

func (cfg Config) withDefaults() Config {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.MaxReads <= 0 {
		cfg.MaxReads = defaultMaxReads
	}
	if cfg.WriteChunkSize <= 0 {
		cfg.WriteChunkSize = defaultWriteChunkSize
	}
	if cfg.HelloName == "" {
		cfg.HelloName = defaultHelloName
	}
	return cfg
}

// DialFunc opens the transport connection. The default dials TCP and
// performs the TLS handshake immediately (implicit TLS, no STARTTLS).
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a structured logger. Commands are logged at debug
// level with credentials replaced by a placeholder.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDialFunc replaces the transport dialer. Used by tests to run the
// protocol over an in-memory pipe.
func WithDialFunc(dial DialFunc) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// Client is a single-use SMTP session: one connect/auth/send/quit cycle
// per message. It is not safe for concurrent use.
type Client struct {
	conn  net.Conn
	dial  DialFunc
	log   *slog.Logger
	cfg   Config
	state State
}

// New creates a client for the given endpoint. No I/O happens until
// Connect.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg: cfg.withDefaults(),
		log: slog.New(slog.DiscardHandler),
	}
	c.dial = c.tlsDial
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current session state.
func (c *Client) State() State {
	return c.state
}

func (c *Client) tlsDial(ctx context.Context, addr string) (net.Conn, error) {
	tlsCfg := c.cfg.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{ServerName: c.cfg.Host, MinVersion: tls.VersionTLS12}
	}
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.cfg.DialTimeout},
		Config:    tlsCfg,
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

// Connect opens the TLS connection and reads the server greeting. The
// server must present a 220 greeting immediately after the handshake.
func (c *Client) Connect(ctx context.Context) error {
	if c.state != StateDisconnected {
		return fmt.Errorf("%w: connect called in state %s", ErrAlreadyConnected, c.state)
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", ErrConnect, addr, err)
	}
	c.conn = conn
	c.state = StateConnected

	code, text, err := c.readResponse(ctx)
	if err != nil {
		c.Disconnect()
		return err
	}
	if code != 220 {
		c.Disconnect()
		return fmt.Errorf("%w: greeting %d: %s", ErrConnect, code, text)
	}

	c.state = StateGreeted
	c.log.DebugContext(ctx, "smtp session established", slog.String("addr", addr))
	return nil
}

// Authenticate performs EHLO followed by the AUTH LOGIN exchange. The
// username and password travel base64-encoded and never reach the log.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	if c.state != StateGreeted {
		return fmt.Errorf("%w: authenticate requires state %s, have %s", ErrNotConnected, StateGreeted, c.state)
	}

	code, text, err := c.exchange(ctx, "EHLO "+c.cfg.HelloName, "EHLO "+c.cfg.HelloName)
	if err != nil {
		return err
	}
	if code != 250 {
		return fmt.Errorf("%w: EHLO answered %d: %s", ErrProtocol, code, text)
	}

	steps := []struct {
		wire  string
		logAs string
		want  int
	}{
		{"AUTH LOGIN", "AUTH LOGIN", 334},
		{base64.StdEncoding.EncodeToString([]byte(username)), credentialPlaceholder, 334},
		{base64.StdEncoding.EncodeToString([]byte(password)), credentialPlaceholder, 235},
	}
	for _, step := range steps {
		code, text, err = c.exchange(ctx, step.wire, step.logAs)
		if err != nil {
			return err
		}
		if code != step.want {
			return fmt.Errorf("%w: server answered %d: %s", ErrAuth, code, text)
		}
	}

	c.state = StateAuthenticated
	c.log.DebugContext(ctx, "smtp authenticated", slog.String("username", credentialPlaceholder))
	return nil
}

// Send transmits one message: MAIL FROM, RCPT TO, DATA, payload,
// CRLF-dot-CRLF terminator. Envelope rejections surface as *RejectError
// with the server's full response text.
func (c *Client) Send(ctx context.Context, envelopeFrom, envelopeTo string, message []byte) error {
	if c.state != StateAuthenticated {
		return fmt.Errorf("%w: send requires state %s, have %s", ErrNotConnected, StateAuthenticated, c.state)
	}

	if err := c.envelopeStep(ctx, "MAIL FROM:<"+envelopeFrom+">", 250); err != nil {
		return err
	}
	c.state = StateMailFromAccepted

	if err := c.envelopeStep(ctx, "RCPT TO:<"+envelopeTo+">", 250); err != nil {
		return err
	}
	c.state = StateRcptToAccepted

	if err := c.envelopeStep(ctx, "DATA", 354); err != nil {
		return err
	}
	c.state = StateDataPhase

	if err := c.writeData(ctx, message); err != nil {
		return err
	}

	code, text, err := c.readResponse(ctx)
	if err != nil {
		return err
	}
	if code != 250 {
		return c.rejectOrProtocol(code, text)
	}

	c.state = StateSent
	c.log.InfoContext(ctx, "smtp message accepted", slog.String("response", text))
	return nil
}

// envelopeStep runs one envelope command and classifies any unexpected
// reply per SMTP status semantics.
func (c *Client) envelopeStep(ctx context.Context, command string, want int) error {
	code, text, err := c.exchange(ctx, command, command)
	if err != nil {
		return err
	}
	if code != want {
		return c.rejectOrProtocol(code, text)
	}
	return nil
}

func (c *Client) rejectOrProtocol(code int, text string) error {
	if code >= 400 && code < 600 {
		return &RejectError{Code: code, Text: text}
	}
	return fmt.Errorf("%w: %d: %s", ErrProtocol, code, text)
}

// writeData streams the message in bounded chunks, applying dot
// transparency (RFC 5321 §4.5.2) so a payload line starting with '.' is
// not mistaken for the terminator. Chunking is framing only; message bytes
// are otherwise untouched.
func (c *Client) writeData(ctx context.Context, message []byte) error {
	payload := stuffDots(message)
	if !bytes.HasSuffix(payload, []byte(crlf)) {
		payload = append(payload, crlf...)
	}
	payload = append(payload, '.', '\r', '\n')

	for off := 0; off < len(payload); off += c.cfg.WriteChunkSize {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrConnect, ctx.Err())
		default:
		}

		end := min(off+c.cfg.WriteChunkSize, len(payload))
		if err := c.writeRaw(payload[off:end]); err != nil {
			return err
		}
	}

	c.log.DebugContext(ctx, "smtp data written", slog.Int("bytes", len(payload)))
	return nil
}

// stuffDots doubles any dot that begins a line.
func stuffDots(msg []byte) []byte {
	stuffed := bytes.ReplaceAll(msg, []byte("\r\n."), []byte("\r\n.."))
	if len(stuffed) > 0 && stuffed[0] == '.' {
		stuffed = append([]byte{'.'}, stuffed...)
	}
	return stuffed
}

// exchange writes one command line and reads its complete response. logAs
// is what reaches the log; AUTH payloads pass a placeholder instead of the
// wire form.
func (c *Client) exchange(ctx context.Context, wire, logAs string) (int, string, error) {
	if err := c.writeRaw([]byte(wire + crlf)); err != nil {
		return 0, "", err
	}
	c.log.DebugContext(ctx, "smtp command sent", slog.String("command", logAs))

	code, text, err := c.readResponse(ctx)
	if err != nil {
		return 0, "", err
	}
	c.log.DebugContext(ctx, "smtp response received",
		slog.Int("code", code),
		slog.String("command", logAs),
	)
	return code, text, nil
}

func (c *Client) writeRaw(p []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("%w: set write deadline: %w", ErrConnect, err)
	}
	if _, err := c.conn.Write(p); err != nil {
		return fmt.Errorf("%w: write: %w", ErrConnect, err)
	}
	return nil
}

// Disconnect sends a best-effort QUIT and closes the transport. It is safe
// to call in any state, repeatedly, and after failures; the session always
// ends disconnected.
func (c *Client) Disconnect() {
	if c.conn == nil {
		c.state = StateDisconnected
		return
	}

	if c.state >= StateGreeted {
		if err := c.writeRaw([]byte("QUIT" + crlf)); err != nil {
			c.log.Debug("smtp quit failed", slog.String("error", err.Error()))
		} else {
			// One bounded read for the 221; a peer that never answers
			// must not delay teardown.
			_ = c.conn.SetReadDeadline(time.Now().Add(quitReadTimeout))
			buf := make([]byte, readChunkSize)
			if _, err := c.conn.Read(buf); err != nil {
				c.log.Debug("smtp quit response not read", slog.String("error", err.Error()))
			}
		}
	}

	if err := c.conn.Close(); err != nil {
		c.log.Debug("smtp close failed", slog.String("error", err.Error()))
	}
	c.conn = nil
	c.state = StateDisconnected
}
