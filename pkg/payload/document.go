package payload

import (
	"fmt"
	"strings"
)

const (
	// MediaTypePDF is the only media type accepted by this subsystem.
	MediaTypePDF = "application/pdf"

	// EncodingBase64 is the only transfer encoding accepted by this subsystem.
	EncodingBase64 = "base64"

	dataURLScheme = "data:"
)

// EncodedDocument is a tagged, still-encoded document payload. It is
// consumed read-only; Data holds the base64 text exactly as received.
type EncodedDocument struct {
	MediaType string
	Encoding  string
	Data      string
}

// ParseDataURL splits a data URL of the form
// data:<mediaType>;base64,<payload> into an EncodedDocument.
// Only application/pdf with base64 encoding is accepted.
func ParseDataURL(s string) (EncodedDocument, error) {
	if !strings.HasPrefix(s, dataURLScheme) {
		return EncodedDocument{}, ErrNotDataURL
	}

	meta, data, ok := strings.Cut(s[len(dataURLScheme):], ",")
	if !ok {
		return EncodedDocument{}, fmt.Errorf("%w: missing comma separator", ErrNotDataURL)
	}

	mediaType, encoding, _ := strings.Cut(meta, ";")
	if mediaType != MediaTypePDF {
		return EncodedDocument{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
	if encoding != EncodingBase64 {
		return EncodedDocument{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
	if data == "" {
		return EncodedDocument{}, ErrEmptyPayload
	}

	return EncodedDocument{
		MediaType: mediaType,
		Encoding:  EncodingBase64,
		Data:      data,
	}, nil
}
