package mimemsg

import "strings"

// maxFilenameBase bounds the filename without its extension.
const maxFilenameBase = 64

// extensionsByMediaType maps supported media types to file extensions.
var extensionsByMediaType = map[string]string{
	"application/pdf": ".pdf",
}

// DeriveFilename builds an attachment filename from a participant's display
// name: "Certificate_<token><ext>", where the token is the display name
// reduced to alphanumerics and underscores. A name that sanitizes to
// nothing yields plain "Certificate<ext>".
func DeriveFilename(displayName, mediaType string) string {
	ext, ok := extensionsByMediaType[mediaType]
	if !ok {
		ext = ".bin"
	}

	base := "Certificate"
	if token := sanitizeToken(displayName); token != "" {
		base += "_" + token
	}
	if len(base) > maxFilenameBase {
		base = strings.TrimRight(base[:maxFilenameBase], "_")
	}
	return base + ext
}

// sanitizeToken collapses every run of non-alphanumeric characters into a
// single underscore and trims underscores from both ends. Non-ASCII runes
// are treated the same as punctuation.
func sanitizeToken(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}
