// Package pipeline dispatches an input file to the matching format adapter
// and hands back the resulting Document. Writing is a downstream concern.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/bookpipe/core"
	"github.com/gaurav-prasanna/bookpipe/core/docx"
	"github.com/gaurav-prasanna/bookpipe/core/epub"
)

// ErrUnsupportedFormat is returned before any parsing when the input
// extension is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Config carries the conversion settings consumed by the pipeline.
type Config struct {
	// NoImages disables resource extraction; image references are then
	// rendered inert instead of rewritten.
	NoImages bool
}

// Run converts one container file into a Document. Adapter-level fatal
// errors (unreadable or corrupt containers) are wrapped with the failing
// stage; recoverable issues are accumulated as notes on the Document.
func Run(path string, cfg Config) (*core.Document, error) {
	var conv core.Converter
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".epub":
		conv = epub.New()
	case ".docx":
		conv = docx.New()
	default:
		return nil, fmt.Errorf("%w: %q (supported: .epub, .docx)", ErrUnsupportedFormat, ext)
	}

	doc, err := conv.Convert(path, core.Options{NoImages: cfg.NoImages})
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}
	return doc, nil
}
