package exporter

import (
	"bytes"

	"github.com/yuin/goldmark"

	"marketing_content_studio/content"
)

// BodyHTML renders a longread body written in markdown to HTML for email and
// blog-platform previews. Plain-text bodies pass through as paragraphs.
func BodyHTML(r content.ChannelResult) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(r.Body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
