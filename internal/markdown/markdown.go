// Package markdown renders stored post bodies.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderHTML converts a Markdown body (front matter already removed) to HTML.
// Raw HTML in the body is omitted.
func RenderHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
