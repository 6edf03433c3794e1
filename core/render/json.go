// Package render — JSON renderer.
// Serializes the full Document (metadata, chapters, image filenames, notes)
// as indented JSON for downstream structured consumers.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/bookpipe/core"
)

// JSONRenderer produces a structured JSON dump of the Document.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the Document. Image binaries are excluded; only their
// assigned filenames appear.
func (r *JSONRenderer) Render(doc *core.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
