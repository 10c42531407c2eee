// Package render provides output renderers over scraped page content.
// This file implements the Markdown renderer, a passthrough of the
// extracted Markdown since that is already the canonical content form.
package render

import (
	"github.com/kv-sajeev/sitescribe/core"
)

// MarkdownRenderer writes the extracted Markdown as-is.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the page's Markdown as bytes.
func (r *MarkdownRenderer) Render(content *core.PageContent) ([]byte, error) {
	return []byte(content.Markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
