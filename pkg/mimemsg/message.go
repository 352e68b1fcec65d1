package mimemsg

// Attachment is a single binary attachment carried as pre-cleaned base64
// text. Base64Content must be the exact whitespace-stripped representation
// returned by payload validation; the builder transmits it as-is apart from
// line wrapping.
type Attachment struct {
	Filename      string
	MediaType     string
	Base64Content string
}

// Message is an outbound email, immutable once built. From and To are RFC
// 5322 header addresses ("Name <addr>" or bare addr); the envelope
// addresses used on the wire are derived by the transport.
type Message struct {
	From       string
	To         string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}
