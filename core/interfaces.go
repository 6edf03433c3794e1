// Package core defines the document model and pipeline interfaces for
// bookpipe. Format adapters produce a Document; writers and renderers
// consume it read-only.
package core

import (
	"fmt"
	"strings"
)

// Metadata holds the document-level metadata extracted from a container.
// Every field is optional; absence is a valid state and is never synthesized.
type Metadata struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors     []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Publisher   string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Chapter is one reading unit of the source document, already converted to
// Markdown. Chapters are immutable once produced by an adapter; their order
// follows the container's declared spine/body order.
type Chapter struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

// ImageResource is a binary asset embedded in the container.
type ImageResource struct {
	// OriginalRef is the container-internal reference spelling the resource
	// was discovered under.
	OriginalRef string `json:"original_ref"`
	// Filename is the assigned output path (e.g. "images/cover.jpg"),
	// empty until mapping runs. Unique per distinct resource content.
	Filename string `json:"filename,omitempty"`
	Data     []byte `json:"-"`
}

// Note records a recoverable issue encountered during conversion. Notes are
// surfaced separately from the Markdown output and never affect the exit
// outcome.
type Note struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

// Document is the format-agnostic result of a conversion run: metadata, the
// ordered chapter sequence, extracted images, and accumulated notes.
type Document struct {
	Meta     Metadata        `json:"metadata"`
	Chapters []Chapter       `json:"chapters"`
	Images   []ImageResource `json:"images,omitempty"`
	Notes    []Note          `json:"notes,omitempty"`
}

// AddNote appends a recoverable-issue note for the given stage.
func (d *Document) AddNote(stage, format string, args ...any) {
	d.Notes = append(d.Notes, Note{Stage: stage, Detail: fmt.Sprintf(format, args...)})
}

// Joined returns the chapters as a single Markdown text, separated by
// horizontal rules. This is the joinable-sequence view used by the
// single-file writer and the PDF renderer.
func (d *Document) Joined() string {
	var b strings.Builder
	for i, ch := range d.Chapters {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		b.WriteString(ch.Body)
		if !strings.HasSuffix(ch.Body, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Options carries the configuration values consumed by format adapters.
type Options struct {
	// NoImages disables resource extraction; adapters then treat image
	// references as inert instead of rewriting them.
	NoImages bool
}

// Converter turns a container file into a Document. The EPUB and DOCX
// adapters implement this interface; dispatch happens once at pipeline entry.
type Converter interface {
	Convert(path string, opts Options) (*Document, error)
}

// Renderer converts a Document into a final output format.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
