package docx

import (
	"github.com/gaurav-prasanna/bookpipe/core"
	"github.com/gaurav-prasanna/bookpipe/core/normalize"
	"github.com/gaurav-prasanna/bookpipe/core/resources"
)

// Adapter converts a DOCX container into a Document. It implements
// core.Converter. The entire input is treated as a single chapter.
type Adapter struct{}

// New creates a DOCX Adapter.
func New() *Adapter {
	return &Adapter{}
}

// Convert parses the container, walks the body to Markdown, and applies the
// markup normalizer once over the assembled output.
func (a *Adapter) Convert(path string, opts core.Options) (*core.Document, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{Meta: f.Meta}
	for _, warning := range f.Warnings {
		doc.AddNote("docx", "%s", warning)
	}

	refs := resources.Empty()
	if !opts.NoImages {
		refs, doc.Images = resources.Build(f.Media)
	}

	body := walk(f, refs, doc, opts.NoImages)
	body = normalize.Normalize(body, refs)

	doc.Chapters = []core.Chapter{{Body: body}}
	return doc, nil
}
