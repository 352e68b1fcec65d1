package mailer_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certsend/certsend/pkg/mailer"
)

type renderData struct {
	ParticipantName   string
	Note              string
	CertificateNumber string
}

func TestDefaultRenderer_CertificateTemplate(t *testing.T) {
	t.Parallel()

	r := mailer.DefaultRenderer()
	res, err := r.Render(mailer.DefaultLayout, mailer.CertificateTemplate, renderData{
		ParticipantName:   "Jane Doe",
		Note:              "Great talk!",
		CertificateNumber: "CERT-2026-117",
	})
	require.NoError(t, err)

	assert.Contains(t, res.HTML, "<strong>Jane Doe</strong>")
	assert.Contains(t, res.HTML, "CERT-2026-117")
	assert.Contains(t, res.HTML, "Great talk!")
	assert.Contains(t, res.HTML, "<html", "layout must wrap the rendered body")
	assert.Equal(t, "Your Certificate {{.CertificateNumber}}", res.Metadata["Subject"])
}

func TestDefaultRenderer_OmitsEmptyNote(t *testing.T) {
	t.Parallel()

	r := mailer.DefaultRenderer()
	res, err := r.Render(mailer.DefaultLayout, mailer.CertificateTemplate, renderData{
		ParticipantName:   "Jane Doe",
		CertificateNumber: "CERT-2026-117",
	})
	require.NoError(t, err)
	assert.NotContains(t, res.Text, "\n\n\n", "empty note must not leave a blank paragraph")
}

func TestRenderer_CustomFilesystem(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"welcome.md": &fstest.MapFile{Data: []byte("---\nSubject: Hello\n---\nHi {{.ParticipantName}}!\n")},
		"layouts/plain.html": &fstest.MapFile{
			Data: []byte("<main>{{.Content}}</main>"),
		},
	}

	r := mailer.NewRenderer(fsys)
	res, err := r.Render("plain.html", "welcome.md", renderData{ParticipantName: "Sam"})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<main>")
	assert.Contains(t, res.HTML, "Hi Sam!")
	assert.Equal(t, "Hello", res.Metadata["Subject"])
}

func TestRenderer_MissingTemplate(t *testing.T) {
	t.Parallel()

	r := mailer.NewRenderer(fstest.MapFS{})
	_, err := r.Render(mailer.DefaultLayout, "nope.md", renderData{})
	require.ErrorIs(t, err, mailer.ErrTemplateNotFound)
}

func TestRenderer_MissingLayout(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"welcome.md": &fstest.MapFile{Data: []byte("Hi!")},
	}
	r := mailer.NewRenderer(fsys)
	_, err := r.Render("nope.html", "welcome.md", renderData{})
	require.ErrorIs(t, err, mailer.ErrLayoutNotFound)
}
