package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is a parsed email template: YAML frontmatter metadata plus a
// markdown body.
type Template struct {
	Metadata map[string]any
	Body     string
}

var frontmatterDelimiter = []byte("---")

// ParseTemplate splits template content into frontmatter metadata and
// body. Content without a leading "---" block is all body.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, frontmatterDelimiter) {
		return &Template{
			Metadata: make(map[string]any),
			Body:     string(content),
		}, nil
	}

	rest := content[len(frontmatterDelimiter):]
	end := bytes.Index(rest, frontmatterDelimiter)
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter block")
	}

	metadata := make(map[string]any)
	if err := yaml.Unmarshal(rest[:end], &metadata); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	body := bytes.TrimLeft(rest[end+len(frontmatterDelimiter):], "\r\n")
	return &Template{
		Metadata: metadata,
		Body:     string(body),
	}, nil
}
