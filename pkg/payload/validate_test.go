package payload_test

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certsend/certsend/pkg/payload"
)

// pdfBytes builds a minimal PDF-looking payload of exactly n bytes.
func pdfBytes(t *testing.T, n int) []byte {
	t.Helper()
	require.GreaterOrEqual(t, n, 4)
	b := bytes.Repeat([]byte{0xAB}, n)
	copy(b, "%PDF")
	return b
}

func encodedDoc(t *testing.T, n int) payload.EncodedDocument {
	t.Helper()
	return payload.EncodedDocument{
		MediaType: payload.MediaTypePDF,
		Encoding:  payload.EncodingBase64,
		Data:      base64.StdEncoding.EncodeToString(pdfBytes(t, n)),
	}
}

func TestValidate_MinimumSizeBoundary(t *testing.T) {
	t.Parallel()

	// Exactly the minimum passes.
	res := payload.Validate(encodedDoc(t, payload.DefaultMinBytes), payload.DefaultLimits())
	require.True(t, res.OK, "errors: %v", res.Errors)
	assert.Empty(t, res.Errors)
	assert.EqualValues(t, payload.DefaultMinBytes, res.DecodedSize)

	// One byte under fails with a size error.
	res = payload.Validate(encodedDoc(t, payload.DefaultMinBytes-1), payload.DefaultLimits())
	require.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "below the minimum")
}

func TestValidate_MaximumSizeBoundary(t *testing.T) {
	t.Parallel()

	limits := payload.Limits{MinBytes: 4, MaxBytes: 1024}

	res := payload.Validate(encodedDoc(t, 1024), limits)
	assert.True(t, res.OK, "errors: %v", res.Errors)

	res = payload.Validate(encodedDoc(t, 1027), limits)
	require.False(t, res.OK)
	assert.Contains(t, res.Errors[0], "exceeds the maximum")
}

func TestValidate_InjectedWhitespace(t *testing.T) {
	t.Parallel()

	doc := encodedDoc(t, 2000)
	clean := doc.Data

	// MIME-style 76-char line wrapping stays below the 5% threshold and
	// must still validate after stripping.
	var wrapped strings.Builder
	for i := 0; i < len(clean); i += 76 {
		end := min(i+76, len(clean))
		wrapped.WriteString(clean[i:end])
		wrapped.WriteString("\r\n")
	}
	doc.Data = wrapped.String()

	res := payload.Validate(doc, payload.DefaultLimits())
	require.True(t, res.OK, "errors: %v", res.Errors)
	assert.Equal(t, clean, res.Cleaned, "Cleaned must be the stripped representation")
	assert.EqualValues(t, 2000, res.DecodedSize)
}

func TestValidate_ExcessiveWhitespaceFlagged(t *testing.T) {
	t.Parallel()

	doc := encodedDoc(t, 2000)
	// Blow well past the 5% threshold: whitespace after every block.
	var b strings.Builder
	for i := 0; i < len(doc.Data); i += 4 {
		b.WriteString(doc.Data[i:min(i+4, len(doc.Data))])
		b.WriteString(" \n ")
	}
	doc.Data = b.String()

	res := payload.Validate(doc, payload.DefaultLimits())
	require.False(t, res.OK)
	assert.Contains(t, strings.Join(res.Errors, "; "), "likely corrupted")
}

func TestValidate_InvalidCharacters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "illegal punctuation",
			mutate:  func(s string) string { return s[:10] + "*" + s[11:] },
			wantErr: "invalid base64 character",
		},
		{
			name:    "mid-stream padding",
			mutate:  func(s string) string { return s[:10] + "=" + s[11:] },
			wantErr: "invalid base64 character",
		},
		{
			name:    "truncated block",
			mutate:  func(s string) string { return s[:len(s)-1] },
			wantErr: "not a multiple of 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := encodedDoc(t, 2000)
			doc.Data = tt.mutate(doc.Data)

			res := payload.Validate(doc, payload.DefaultLimits())
			require.False(t, res.OK)
			assert.Contains(t, strings.Join(res.Errors, "; "), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblemsTogether(t *testing.T) {
	t.Parallel()

	doc := payload.EncodedDocument{
		MediaType: payload.MediaTypePDF,
		Encoding:  payload.EncodingBase64,
		// Invalid character and too small at the same time.
		Data: "AAA*AAA",
	}

	res := payload.Validate(doc, payload.DefaultLimits())
	require.False(t, res.OK)
	assert.GreaterOrEqual(t, len(res.Errors), 2, "checks must not short-circuit")
}

func TestValidate_MagicHeaderMismatchIsWarning(t *testing.T) {
	t.Parallel()

	doc := payload.EncodedDocument{
		MediaType: payload.MediaTypePDF,
		Encoding:  payload.EncodingBase64,
		Data:      base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 2000)),
	}

	res := payload.Validate(doc, payload.DefaultLimits())
	assert.True(t, res.OK, "magic mismatch alone must not fail validation")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "%PDF")
}

func TestValidate_WrongMediaType(t *testing.T) {
	t.Parallel()

	doc := encodedDoc(t, 2000)
	doc.MediaType = "image/png"

	res := payload.Validate(doc, payload.DefaultLimits())
	require.False(t, res.OK)
	assert.Contains(t, res.Errors[0], "unsupported media type")
}

func TestValidate_EmptyPayload(t *testing.T) {
	t.Parallel()

	res := payload.Validate(payload.EncodedDocument{MediaType: payload.MediaTypePDF}, payload.DefaultLimits())
	require.False(t, res.OK)
	assert.Contains(t, res.Errors[0], "empty")
	assert.Empty(t, res.Warnings)
}
