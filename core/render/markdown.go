// Package render provides alternative output renderers over a converted
// Document. This file implements the Markdown renderer, the simplest one
// since Markdown is already the canonical pipeline format.
package render

import (
	"github.com/gaurav-prasanna/bookpipe/core"
)

// MarkdownRenderer returns the joined Markdown as-is.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the chapters joined by horizontal rules.
func (r *MarkdownRenderer) Render(doc *core.Document) ([]byte, error) {
	return []byte(doc.Joined()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
