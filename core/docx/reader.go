package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/bookpipe/core"
)

// documentPart is the one OOXML part a DOCX cannot do without.
const documentPart = "word/document.xml"

// File is a parsed DOCX container: the document body, its relationships and
// numbering definitions, document metadata, and embedded media. Warnings
// collects recoverable parse issues from optional parts.
type File struct {
	Body      Body
	Rels      map[string]Relationship
	Numbering *Numbering
	Meta      core.Metadata
	Media     []core.ImageResource
	Warnings  []string
}

// Open reads and parses a DOCX container. A missing or malformed
// word/document.xml is fatal; optional parts (relationships, numbering,
// document properties) degrade to warnings.
func Open(path string) (*File, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX archive: %w", err)
	}
	defer zr.Close()

	parts := make(map[string]*zip.File)
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	docContent, err := readPart(parts, documentPart)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", documentPart, err)
	}
	var doc documentXML
	if err := xml.Unmarshal(docContent, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", documentPart, err)
	}

	f := &File{
		Body: doc.Body,
		Rels: make(map[string]Relationship),
	}

	if content, err := readPart(parts, "word/_rels/document.xml.rels"); err == nil {
		var rels relationshipsXML
		if err := xml.Unmarshal(content, &rels); err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("malformed relationships part: %v", err))
		} else {
			for _, rel := range rels.Rels {
				f.Rels[rel.ID] = rel
			}
		}
	}

	if content, err := readPart(parts, "word/numbering.xml"); err == nil {
		num, err := parseNumbering(content)
		if err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("malformed numbering part: %v", err))
		} else {
			f.Numbering = num
		}
	}

	f.Meta = readMetadata(parts, f)
	f.Media = readMedia(parts, f)

	return f, nil
}

// readMetadata pulls title/creator/description/language from core.xml and
// the company (publisher) from app.xml. Missing parts leave fields empty.
func readMetadata(parts map[string]*zip.File, f *File) core.Metadata {
	var meta core.Metadata

	if content, err := readPart(parts, "docProps/core.xml"); err == nil {
		var props corePropsXML
		if err := xml.Unmarshal(content, &props); err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("malformed core properties: %v", err))
		} else {
			meta.Title = strings.TrimSpace(props.Title)
			meta.Description = strings.TrimSpace(props.Description)
			meta.Language = strings.TrimSpace(props.Language)
			if creator := strings.TrimSpace(props.Creator); creator != "" {
				meta.Authors = []string{creator}
			}
		}
	}

	if content, err := readPart(parts, "docProps/app.xml"); err == nil {
		var props appPropsXML
		if err := xml.Unmarshal(content, &props); err == nil {
			meta.Publisher = strings.TrimSpace(props.Company)
		}
	}

	return meta
}

// readMedia extracts every part under word/media/, keyed by the
// relationship-target spelling ("media/image1.png"). Parts are visited in
// sorted order so filename assignment downstream is deterministic.
func readMedia(parts map[string]*zip.File, f *File) []core.ImageResource {
	var names []string
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var media []core.ImageResource
	for _, name := range names {
		data, err := readPart(parts, name)
		if err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("skipping media %s: %v", name, err))
			continue
		}
		media = append(media, core.ImageResource{
			// Relationship targets are relative to word/.
			OriginalRef: strings.TrimPrefix(name, "word/"),
			Data:        data,
		})
	}
	return media
}

func readPart(parts map[string]*zip.File, name string) ([]byte, error) {
	f, ok := parts[name]
	if !ok {
		return nil, fmt.Errorf("part not found")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
