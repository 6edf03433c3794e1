// Package output writes a converted Document to disk. Folder mode produces
// one Markdown file per chapter plus a README with metadata and a table of
// contents; single mode produces one concatenated Markdown file. Both modes
// place extracted images under their mapped filenames.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/gaurav-prasanna/bookpipe/core"
)

// WriteFolder writes the document as a directory: chapter-NN.md files, the
// images directory, and a README.md with frontmatter, a metadata header,
// and a table of contents.
func WriteFolder(doc *core.Document, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var toc strings.Builder
	for i, ch := range doc.Chapters {
		name := chapterFilename(i)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(ch.Body), 0o644); err != nil {
			return fmt.Errorf("writing chapter %s: %w", path, err)
		}
		fmt.Fprintf(&toc, "%d. [%s](%s)\n", i+1, chapterTitle(ch, i), name)
	}

	if err := writeImages(doc, dir); err != nil {
		return err
	}

	var readme strings.Builder
	readme.WriteString(frontmatter(doc.Meta))
	readme.WriteString(metadataHeader(doc.Meta))
	readme.WriteString("## Table of Contents\n\n")
	readme.WriteString(toc.String())
	readme.WriteByte('\n')

	path := filepath.Join(dir, "README.md")
	if err := os.WriteFile(path, []byte(readme.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteSingle writes the document as one Markdown file, chapters separated
// by horizontal rules. Images land in a directory beside the file.
func WriteSingle(doc *core.Document, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString(frontmatter(doc.Meta))
	b.WriteString(metadataHeader(doc.Meta))
	b.WriteString(doc.Joined())

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return writeImages(doc, filepath.Dir(path))
}

// writeImages places each extracted binary under its mapped filename,
// relative to base.
func writeImages(doc *core.Document, base string) error {
	for _, img := range doc.Images {
		path := filepath.Join(base, filepath.FromSlash(img.Filename))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating images directory: %w", err)
		}
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return fmt.Errorf("writing image %s: %w", path, err)
		}
	}
	return nil
}

// frontmatter renders the metadata as a YAML frontmatter block, or nothing
// when every field is absent.
func frontmatter(meta core.Metadata) string {
	if metaEmpty(meta) {
		return ""
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return ""
	}
	return "---\n" + string(data) + "---\n\n"
}

// metadataHeader renders the human-readable metadata block that precedes
// the content in README/single-file output.
func metadataHeader(meta core.Metadata) string {
	if metaEmpty(meta) {
		return ""
	}

	var lines []string
	if meta.Title != "" {
		lines = append(lines, "# "+meta.Title, "")
	}
	if len(meta.Authors) > 0 {
		lines = append(lines, "**Author:** "+strings.Join(meta.Authors, ", "))
	}
	if meta.Publisher != "" {
		lines = append(lines, "**Publisher:** "+meta.Publisher)
	}
	if meta.Language != "" {
		lines = append(lines, "**Language:** "+meta.Language)
	}
	if meta.Description != "" {
		lines = append(lines, "", "> "+meta.Description)
	}
	lines = append(lines, "", "---", "", "")
	return strings.Join(lines, "\n")
}

func metaEmpty(meta core.Metadata) bool {
	return meta.Title == "" && len(meta.Authors) == 0 && meta.Publisher == "" &&
		meta.Language == "" && meta.Description == ""
}

// chapterFilename is the stable on-disk name for chapter index i.
func chapterFilename(i int) string {
	return fmt.Sprintf("chapter-%02d.md", i+1)
}

// chapterTitle picks the display title for a chapter: the adapter-provided
// title, else the first level-1 heading in the body, else "Chapter N".
func chapterTitle(ch core.Chapter, i int) string {
	if ch.Title != "" {
		return ch.Title
	}
	for _, line := range strings.Split(ch.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if title := strings.TrimPrefix(trimmed, "# "); title != trimmed {
			if title = strings.TrimSpace(title); title != "" {
				return title
			}
		}
	}
	return fmt.Sprintf("Chapter %d", i+1)
}
