// Package scan discovers convertible container files for --all mode,
// keeping directory traversal separate from the conversion pipeline.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExts are the container formats the pipeline can dispatch on.
var supportedExts = map[string]bool{
	".epub": true,
	".docx": true,
}

// Supported reports whether the path has a convertible extension.
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// Discover walks root and returns every supported container file,
// deduplicated and sorted so batch runs process inputs in a deterministic
// order.
func Discover(root string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
