package mimemsg

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// base64LineLength is the maximum encoded line length per RFC 2045 §6.8.
	base64LineLength = 76

	crlf = "\r\n"

	boundaryPrefix   = "=_cert_"
	boundaryAttempts = 32
)

// Builder serializes Messages into wire bytes. The zero value is not
// usable; construct with NewBuilder.
type Builder struct {
	rand        io.Reader
	messageHost string
	now         func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRandSource replaces the boundary token random source.
func WithRandSource(r io.Reader) Option {
	return func(b *Builder) {
		if r != nil {
			b.rand = r
		}
	}
}

// WithMessageIDHost sets the host part of generated Message-ID headers.
func WithMessageIDHost(host string) Option {
	return func(b *Builder) {
		if host != "" {
			b.messageHost = host
		}
	}
}

// NewBuilder creates a Builder with crypto/rand boundaries.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		rand:        rand.Reader,
		messageHost: "certsend.local",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build serializes msg into a transmit-ready message. The attachment part,
// when present, carries msg.Attachment.Base64Content re-wrapped to
// 76-character CRLF lines with no other transformation.
func (b *Builder) Build(msg Message) ([]byte, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}
	if msg.From == "" {
		return nil, ErrNoSender
	}

	// Templates render with LF line endings; the wire requires CRLF
	// (RFC 5321 §2.3.8), and the transport's dot transparency only
	// recognizes CRLF-delimited lines.
	htmlBody := normalizeCRLF(msg.HTMLBody)

	var buf bytes.Buffer
	writeHeader(&buf, "From", msg.From)
	writeHeader(&buf, "To", msg.To)
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&buf, "Date", b.now().Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), b.messageHost))
	writeHeader(&buf, "MIME-Version", "1.0")

	if msg.Attachment == nil {
		writeHeader(&buf, "Content-Type", "text/html; charset=UTF-8")
		buf.WriteString(crlf)
		buf.WriteString(htmlBody)
		buf.WriteString(crlf)
		return buf.Bytes(), nil
	}

	att := msg.Attachment
	boundary, err := b.boundary(htmlBody, att.Base64Content)
	if err != nil {
		return nil, err
	}

	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", boundary))
	buf.WriteString(crlf)

	// HTML body part.
	buf.WriteString("--" + boundary + crlf)
	writeHeader(&buf, "Content-Type", "text/html; charset=UTF-8")
	writeHeader(&buf, "Content-Transfer-Encoding", "8bit")
	buf.WriteString(crlf)
	buf.WriteString(htmlBody)
	buf.WriteString(crlf)

	// Attachment part.
	buf.WriteString("--" + boundary + crlf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf("%s; name=%q", att.MediaType, att.Filename))
	writeHeader(&buf, "Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	writeHeader(&buf, "Content-Transfer-Encoding", "base64")
	buf.WriteString(crlf)
	writeWrapped(&buf, att.Base64Content)

	buf.WriteString("--" + boundary + "--" + crlf)
	return buf.Bytes(), nil
}

// boundary generates a random token guaranteed not to appear verbatim in
// either body part. Collisions are astronomically unlikely but checked
// anyway: a boundary that occurs inside a part would truncate the
// attachment silently.
func (b *Builder) boundary(htmlBody, encoded string) (string, error) {
	token := make([]byte, 16)
	for range boundaryAttempts {
		if _, err := io.ReadFull(b.rand, token); err != nil {
			return "", fmt.Errorf("%w: %w", ErrBoundaryRand, err)
		}
		candidate := boundaryPrefix + hex.EncodeToString(token)
		if strings.Contains(htmlBody, candidate) || strings.Contains(encoded, candidate) {
			continue
		}
		return candidate, nil
	}
	return "", ErrBoundaryExhausted
}

// normalizeCRLF rewrites bare-LF line terminators to CRLF, leaving lines
// that already end in CRLF untouched.
func normalizeCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// writeHeader emits one header line, stripping CR/LF from the value so a
// caller-supplied string can never inject additional headers.
func writeHeader(buf *bytes.Buffer, name, value string) {
	value = strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString(crlf)
}

// writeWrapped re-flows the base64 text into fixed-width CRLF-terminated
// lines. Characters are copied untouched; only line breaks are inserted.
func writeWrapped(buf *bytes.Buffer, encoded string) {
	for i := 0; i < len(encoded); i += base64LineLength {
		end := min(i+base64LineLength, len(encoded))
		buf.WriteString(encoded[i:end])
		buf.WriteString(crlf)
	}
}
