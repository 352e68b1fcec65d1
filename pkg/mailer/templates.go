package mailer

import (
	"embed"
	"io/fs"
)

// CertificateTemplate is the notification template shipped with the
// package.
const CertificateTemplate = "certificate.md"

// DefaultLayout is the layout wrapping every rendered template.
const DefaultLayout = "base.html"

//go:embed templates
var templatesFS embed.FS

// DefaultRenderer returns a renderer over the embedded notification
// templates.
func DefaultRenderer() *Renderer {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		// The embedded tree always contains "templates"; reaching this
		// means a broken build.
		panic(err)
	}
	return NewRenderer(sub)
}
