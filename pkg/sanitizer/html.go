package sanitizer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// A bluemonday policy is safe for concurrent Sanitize calls once built.
var strict = bluemonday.StrictPolicy()

// StripHTML removes all markup and returns plain text. Caller-supplied
// notes pass through this before template interpolation, so a note can
// never smuggle markup into the rendered email.
func StripHTML(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
