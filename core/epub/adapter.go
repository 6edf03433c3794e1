package epub

import (
	"fmt"
	"path"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/bookpipe/core"
	"github.com/gaurav-prasanna/bookpipe/core/normalize"
	"github.com/gaurav-prasanna/bookpipe/core/resources"
)

// noiseSelectors are elements removed from chapter markup before
// transcoding. They contribute no readable content.
var noiseSelectors = []string{"script", "style", "noscript"}

// Adapter converts an EPUB container into a Document. It implements
// core.Converter.
type Adapter struct{}

// New creates an EPUB Adapter.
func New() *Adapter {
	return &Adapter{}
}

// Convert opens the container, extracts metadata and images, and transcodes
// every spine chapter to Markdown. Recoverable per-chapter and per-image
// failures are recorded as notes; only an unreadable container is fatal.
func (a *Adapter) Convert(inputPath string, opts core.Options) (*core.Document, error) {
	r, err := Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opfContent, err := r.ReadFile(r.OPFPath())
	if err != nil {
		return nil, fmt.Errorf("reading package document: %w", err)
	}
	pkg, err := ParseOPF(opfContent, path.Dir(r.OPFPath()))
	if err != nil {
		return nil, err
	}

	doc := &core.Document{Meta: pkg.Meta}

	refs := resources.Empty()
	if !opts.NoImages {
		refs, doc.Images = resources.Build(a.collectImages(r, pkg, doc))
	}

	for _, idref := range pkg.Spine {
		item, ok := pkg.Manifest[idref]
		if !ok {
			doc.AddNote("epub", "spine references unknown manifest id %q", idref)
			continue
		}
		if !item.IsChapter() {
			continue
		}

		raw, err := r.ReadFile(item.Href)
		if err != nil {
			doc.AddNote("epub", "skipping chapter %s: %v", item.Href, err)
			continue
		}

		md, err := transcode(string(raw))
		if err != nil {
			doc.AddNote("epub", "skipping chapter %s: %v", item.Href, err)
			continue
		}

		md = normalize.Normalize(md, refs)
		if md == "" {
			continue
		}
		doc.Chapters = append(doc.Chapters, core.Chapter{Body: md})
	}

	return doc, nil
}

// collectImages reads every image resource declared in the manifest,
// referenced by a chapter or not. Manifest ids are visited in deterministic
// spine-independent order so filename assignment is stable.
func (a *Adapter) collectImages(r *Reader, pkg *Package, doc *core.Document) []core.ImageResource {
	var images []core.ImageResource
	for _, id := range pkg.SortedManifestIDs() {
		item := pkg.Manifest[id]
		if !item.IsImage() {
			continue
		}
		data, err := r.ReadFile(item.Href)
		if err != nil {
			doc.AddNote("epub", "skipping image %s: %v", item.Href, err)
			continue
		}
		images = append(images, core.ImageResource{OriginalRef: item.Href, Data: data})
	}
	return images
}

// transcode converts an (X)HTML chapter fragment to Markdown: parse, strip
// noise elements, serialize the body, then hand it to the HTML-to-Markdown
// transcoder.
func transcode(html string) (string, error) {
	fragment, err := cleanHTML(html)
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return md, nil
}

// cleanHTML strips noise elements and returns the body fragment.
func cleanHTML(html string) (string, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing chapter HTML: %w", err)
	}
	for _, sel := range noiseSelectors {
		d.Find(sel).Remove()
	}

	body := d.Find("body")
	if body.Length() == 0 {
		return html, nil
	}
	fragment, err := goquery.OuterHtml(body.First())
	if err != nil {
		return "", fmt.Errorf("serializing chapter body: %w", err)
	}
	return fragment, nil
}
