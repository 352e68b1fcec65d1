// Package payload parses and validates base64-encoded certificate documents.
//
// Documents arrive as data URLs (data:application/pdf;base64,<payload>).
// ParseDataURL splits the URL into an EncodedDocument; Validate runs every
// integrity check and reports all problems together instead of stopping at
// the first one.
//
// Validate returns the single whitespace-stripped base64 representation of
// the payload in Result.Cleaned. Downstream message building must reuse that
// exact text rather than re-cleaning the input, so the bytes that were
// validated are the bytes that go on the wire.
package payload
