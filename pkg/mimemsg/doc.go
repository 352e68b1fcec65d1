// Package mimemsg serializes outbound messages into transmit-ready MIME
// bytes.
//
// A message without an attachment becomes a single-part text/html message.
// A message with an attachment becomes multipart/mixed with two parts: the
// HTML body (8bit) and the base64 attachment wrapped to 76-character CRLF
// lines per RFC 2045. The attachment content is the already-validated,
// whitespace-stripped base64 text from pkg/payload and is never re-encoded
// here; the builder only re-flows it into fixed-width lines.
//
// The headline guarantee: a standards-compliant MIME reader parsing the
// produced bytes recovers the attachment byte-for-byte.
package mimemsg
