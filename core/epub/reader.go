// Package epub implements the EPUB format adapter: container reading,
// OPF parsing, and HTML-to-Markdown chapter conversion.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrContainerNotFound means META-INF/container.xml is missing, so the
	// package document cannot be located.
	ErrContainerNotFound = errors.New("META-INF/container.xml not found")
	// ErrOPFNotFound means container.xml names no package document.
	ErrOPFNotFound = errors.New("no package document declared in container.xml")
)

// Reader provides access to the files inside an EPUB container. Opening is
// lenient: a missing or malformed mimetype entry is tolerated; only an
// unreadable archive or a missing container.xml/OPF aborts.
type Reader struct {
	zr      *zip.ReadCloser
	files   map[string]*zip.File
	opfPath string
}

// containerXML mirrors META-INF/container.xml.
type containerXML struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// Open opens an EPUB container and locates its package document.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening EPUB archive: %w", err)
	}

	r := &Reader{zr: zr, files: make(map[string]*zip.File)}
	for _, f := range zr.File {
		r.files[normalizePath(f.Name)] = f
	}

	if err := r.locateOPF(); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying archive.
func (r *Reader) Close() error {
	return r.zr.Close()
}

// OPFPath returns the path of the package document within the container.
func (r *Reader) OPFPath() string {
	return r.opfPath
}

// Has reports whether the container holds a file at the given path.
func (r *Reader) Has(p string) bool {
	_, ok := r.files[normalizePath(p)]
	return ok
}

// ReadFile returns the contents of a file inside the container.
func (r *Reader) ReadFile(p string) ([]byte, error) {
	f, ok := r.files[normalizePath(p)]
	if !ok {
		return nil, fmt.Errorf("file not found in container: %s", p)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// locateOPF parses container.xml and records the package document path.
func (r *Reader) locateOPF() error {
	content, err := r.ReadFile("META-INF/container.xml")
	if err != nil {
		return ErrContainerNotFound
	}

	var c containerXML
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("parsing container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			r.opfPath = normalizePath(rf.FullPath)
			return nil
		}
	}
	if len(c.Rootfiles.Rootfile) > 0 {
		r.opfPath = normalizePath(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}
	return ErrOPFNotFound
}

// normalizePath strips "./" prefixes and collapses dot segments so spellings
// inside the archive and inside the OPF agree.
func normalizePath(p string) string {
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return p
	}
	return path.Clean(p)
}
