// Package resources implements the resource mapper: it assigns each embedded
// binary resource a deterministic output filename and builds a lookup from
// every reference spelling a container could plausibly use (absolute path,
// package-relative path, bare filename) to that single assigned path.
package resources

import (
	"crypto/sha256"
	"fmt"
	"path"
	"strings"

	"github.com/gaurav-prasanna/bookpipe/core"
)

// outputDir is the subdirectory resources are mapped into.
const outputDir = "images"

// fallbackName is used when a reference has no usable basename.
const fallbackName = "image.bin"

// Map resolves original reference spellings to assigned output paths. It is
// built once per document and read-only during markup emission.
type Map struct {
	refs map[string]string
}

// Empty returns a map with no entries. Every lookup misses, so markup
// emission treats all image references as inert (no-images mode).
func Empty() *Map {
	return &Map{refs: map[string]string{}}
}

// Len returns the number of registered spelling variants.
func (m *Map) Len() int {
	return len(m.refs)
}

// Resolve looks up a reference spelling and returns the assigned output
// path. References carrying a URL scheme or pointing at an in-document
// fragment never resolve; they belong to the outside world.
func (m *Map) Resolve(ref string) (string, bool) {
	if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "#") {
		return "", false
	}
	if out, ok := m.refs[ref]; ok {
		return out, true
	}
	if out, ok := m.refs[cleanRef(ref)]; ok {
		return out, true
	}
	// Relative spellings vary per referencing file (../images/x.jpg vs
	// images/x.jpg), so the basename is the variant of last resort.
	if out, ok := m.refs[path.Base(cleanRef(ref))]; ok {
		return out, true
	}
	return "", false
}

// Build assigns output filenames to the given resources and returns the
// reference map plus the extraction plan. Filenames are derived from the
// reference basename; collisions between distinct contents get a numeric
// disambiguator in first-seen order. Resources with identical content are
// collapsed onto one filename, with every spelling registered as a variant.
func Build(images []core.ImageResource) (*Map, []core.ImageResource) {
	m := Empty()
	byContent := make(map[[sha256.Size]byte]string)
	taken := make(map[string]bool)

	var plan []core.ImageResource
	for _, img := range images {
		sum := sha256.Sum256(img.Data)
		if out, ok := byContent[sum]; ok {
			// Same bytes under another spelling: register the variant,
			// do not extract twice.
			m.register(img.OriginalRef, out)
			continue
		}

		out := assignFilename(img.OriginalRef, taken)
		byContent[sum] = out
		m.register(img.OriginalRef, out)

		img.Filename = out
		plan = append(plan, img)
	}

	// Assigned paths resolve to themselves, which keeps rewriting idempotent.
	// Registered after every real spelling so a resource whose original
	// reference equals another resource's assigned path still wins its own
	// spelling.
	for _, img := range plan {
		if _, exists := m.refs[img.Filename]; !exists {
			m.refs[img.Filename] = img.Filename
		}
	}
	return m, plan
}

// assignFilename picks the first free output path for a reference.
func assignFilename(ref string, taken map[string]bool) string {
	base := path.Base(cleanRef(ref))
	if base == "" || base == "." || base == "/" {
		base = fallbackName
	}

	candidate := path.Join(outputDir, base)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 2; taken[candidate]; n++ {
		candidate = path.Join(outputDir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}
	taken[candidate] = true
	return candidate
}

// register records all spelling variants of ref pointing at out. The bare
// basename is only claimed once; when two distinct resources share a
// basename, the first-seen resource keeps it.
func (m *Map) register(ref, out string) {
	cleaned := cleanRef(ref)
	for _, variant := range []string{ref, cleaned, "/" + cleaned} {
		if variant != "" {
			if _, exists := m.refs[variant]; !exists {
				m.refs[variant] = out
			}
		}
	}
	base := path.Base(cleaned)
	if base != "" && base != "." {
		if _, exists := m.refs[base]; !exists {
			m.refs[base] = out
		}
	}
}

// cleanRef normalizes a reference spelling: forward slashes, no leading
// "./" or "/", dot segments collapsed.
func cleanRef(ref string) string {
	ref = strings.ReplaceAll(ref, "\\", "/")
	ref = strings.TrimPrefix(ref, "./")
	ref = strings.TrimPrefix(ref, "/")
	return path.Clean(ref)
}
