package payload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// DefaultMinBytes is the smallest plausible certificate PDF.
	DefaultMinBytes = 1000

	// DefaultMaxBytes caps the decoded document at 10 MB.
	DefaultMaxBytes = 10 << 20

	// maxStrippedRatio is the fraction of whitespace characters above which
	// the payload is flagged as likely corrupted in transit.
	maxStrippedRatio = 0.05
)

// magicHeaders maps a media type to the byte prefix its decoded
// content must start with.
var magicHeaders = map[string][]byte{
	MediaTypePDF: []byte("%PDF"),
}

// Limits bounds the decoded size of an acceptable document.
type Limits struct {
	MinBytes int64
	MaxBytes int64
}

// DefaultLimits returns the standard 1 KB..10 MB window.
func DefaultLimits() Limits {
	return Limits{MinBytes: DefaultMinBytes, MaxBytes: DefaultMaxBytes}
}

// Result is the verdict of Validate. OK is true iff Errors is empty;
// Warnings never fail validation on their own. Cleaned holds the
// whitespace-stripped base64 text and is the only representation that
// may be transmitted.
type Result struct {
	Errors      []string
	Warnings    []string
	Cleaned     string
	DecodedSize int64
	OK          bool
}

// Validate runs every integrity check against the document and reports all
// failures together. It is a pure function of its input: no I/O, no
// mutation of doc.
func Validate(doc EncodedDocument, limits Limits) Result {
	var res Result

	if limits.MinBytes <= 0 {
		limits.MinBytes = DefaultMinBytes
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}

	if doc.MediaType != MediaTypePDF {
		res.Errors = append(res.Errors, fmt.Sprintf("unsupported media type %q, only %s is accepted", doc.MediaType, MediaTypePDF))
	}
	if doc.Encoding != "" && doc.Encoding != EncodingBase64 {
		res.Errors = append(res.Errors, fmt.Sprintf("unsupported encoding %q, only %s is accepted", doc.Encoding, EncodingBase64))
	}
	if doc.Data == "" {
		res.Errors = append(res.Errors, "payload is empty")
		return res
	}

	// Check 1: strip incidental whitespace. A payload that is mostly
	// whitespace did not survive transport intact.
	cleaned := stripWhitespace(doc.Data)
	res.Cleaned = cleaned
	stripped := len(doc.Data) - len(cleaned)
	if float64(stripped) > float64(len(doc.Data))*maxStrippedRatio {
		res.Errors = append(res.Errors, fmt.Sprintf("payload contains %d whitespace characters (more than %.0f%% of input), likely corrupted", stripped, maxStrippedRatio*100))
	}
	if cleaned == "" {
		res.Errors = append(res.Errors, "payload is empty after whitespace stripping")
		return res
	}

	// Check 2: base64 alphabet and block length.
	wellFormed := true
	if bad, pos := invalidBase64Char(cleaned); bad != 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid base64 character %q at offset %d", bad, pos))
		wellFormed = false
	}
	if len(cleaned)%4 != 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("base64 length %d is not a multiple of 4", len(cleaned)))
		wellFormed = false
	}

	// Check 3: estimated decoded size against the allowed window.
	padCount := int64(len(cleaned) - len(strings.TrimRight(cleaned, "=")))
	res.DecodedSize = int64(len(cleaned))*3/4 - padCount
	if res.DecodedSize < limits.MinBytes {
		res.Errors = append(res.Errors, fmt.Sprintf("decoded size %d bytes is below the minimum of %d", res.DecodedSize, limits.MinBytes))
	}
	if res.DecodedSize > limits.MaxBytes {
		res.Errors = append(res.Errors, fmt.Sprintf("decoded size %d bytes exceeds the maximum of %d", res.DecodedSize, limits.MaxBytes))
	}

	// Check 4: magic header probe. Some encoders wrap the header in
	// unusual ways, so a mismatch is surfaced as a warning rather than a
	// hard failure.
	if wellFormed {
		if magic, ok := magicHeaders[doc.MediaType]; ok {
			if !hasMagicHeader(cleaned, magic) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("decoded content does not start with the %q header expected for %s", magic, doc.MediaType))
			}
		}
	}

	res.OK = len(res.Errors) == 0
	return res
}

// stripWhitespace removes spaces, tabs, CR and LF from the encoded text.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}

// invalidBase64Char returns the first character outside the standard
// base64 alphabet and its offset. Up to two '=' pad characters are allowed
// at the very end only.
func invalidBase64Char(s string) (byte, int) {
	body := strings.TrimRight(s, "=")
	if len(s)-len(body) > 2 {
		return '=', len(body) + 2
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '+' || c == '/':
		default:
			return c, i
		}
	}
	return 0, 0
}

// hasMagicHeader decodes just enough of the payload to compare its first
// bytes against the expected magic prefix.
func hasMagicHeader(cleaned string, magic []byte) bool {
	// 4 base64 chars decode to 3 bytes; take enough whole blocks to
	// cover the magic prefix.
	blocks := (len(magic) + 2) / 3
	need := blocks * 4
	if len(cleaned) < need {
		return false
	}
	head, err := base64.StdEncoding.DecodeString(cleaned[:need])
	if err != nil || len(head) < len(magic) {
		return false
	}
	return bytes.Equal(head[:len(magic)], magic)
}
