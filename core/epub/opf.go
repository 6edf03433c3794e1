package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/bookpipe/core"
)

// Package is the parsed OPF package document: metadata, the manifest of
// container resources, and the spine (reading order).
type Package struct {
	Meta     core.Metadata
	Manifest map[string]ManifestItem // id -> item
	Spine    []string                // manifest ids in reading order
}

// ManifestItem is one resource declared in the package manifest. Href is
// resolved relative to the container root.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// opfPackage mirrors the OPF XML structure.
type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	Metadata struct {
		Title       []string `xml:"http://purl.org/dc/elements/1.1/ title"`
		Creator     []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
		Language    []string `xml:"http://purl.org/dc/elements/1.1/ language"`
		Publisher   []string `xml:"http://purl.org/dc/elements/1.1/ publisher"`
		Description []string `xml:"http://purl.org/dc/elements/1.1/ description"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// ParseOPF parses a package document. opfDir is the directory containing the
// OPF file inside the container; manifest hrefs are resolved against it.
func ParseOPF(content []byte, opfDir string) (*Package, error) {
	var raw opfPackage
	if err := xml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parsing package document: %w", err)
	}

	pkg := &Package{Manifest: make(map[string]ManifestItem)}

	pkg.Meta = core.Metadata{
		Title:       first(raw.Metadata.Title),
		Publisher:   first(raw.Metadata.Publisher),
		Language:    first(raw.Metadata.Language),
		Description: first(raw.Metadata.Description),
	}
	for _, c := range raw.Metadata.Creator {
		if c = strings.TrimSpace(c); c != "" {
			pkg.Meta.Authors = append(pkg.Meta.Authors, c)
		}
	}

	for _, item := range raw.Manifest.Items {
		pkg.Manifest[item.ID] = ManifestItem{
			ID:        item.ID,
			Href:      joinHref(opfDir, item.Href),
			MediaType: item.MediaType,
		}
	}

	for _, ref := range raw.Spine.ItemRefs {
		// Non-linear items (covers, notes) are still part of the declared
		// reading order; keep them.
		pkg.Spine = append(pkg.Spine, ref.IDRef)
	}

	return pkg, nil
}

// SortedManifestIDs returns the manifest ids in lexicographic order. The
// manifest is a map, so callers needing deterministic iteration go through
// this.
func (p *Package) SortedManifestIDs() []string {
	ids := make([]string, 0, len(p.Manifest))
	for id := range p.Manifest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsImage reports whether the manifest item is a binary image resource.
func (it ManifestItem) IsImage() bool {
	return strings.HasPrefix(it.MediaType, "image/")
}

// IsChapter reports whether the manifest item is an (X)HTML content document.
func (it ManifestItem) IsChapter() bool {
	switch it.MediaType {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// joinHref resolves a manifest href against the OPF directory.
func joinHref(opfDir, href string) string {
	if opfDir == "" || opfDir == "." {
		return normalizePath(href)
	}
	return normalizePath(path.Join(opfDir, href))
}
