// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// dirPatterns are matched in order against directory entries; a directory
// contributes every *.pdf file, then every *.PDF file.
var dirPatterns = []string{"*.pdf", "*.PDF"}

// IsPDFPath reports whether path has a .pdf extension, ignoring case.
func IsPDFPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// ResolveInputs expands command-line arguments into an ordered list of PDF
// paths. A file argument with a .pdf extension (any case) is kept as-is; a
// directory contributes its *.pdf and *.PDF entries without descending into
// subdirectories; anything else is reported to w and dropped. Duplicates
// are kept.
func ResolveInputs(args []string, w io.Writer) []string {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.Mode().IsRegular() && IsPDFPath(arg):
			paths = append(paths, arg)
		case err == nil && info.IsDir():
			found, err := scanDir(arg)
			if err != nil {
				fmt.Fprintf(w, "Warning: could not read directory %s: %v\n", arg, err)
				continue
			}
			paths = append(paths, found...)
		default:
			fmt.Fprintf(w, "Warning: %s is not a valid PDF file or directory\n", arg)
		}
	}
	return paths
}

// scanDir lists dir's PDF files, one pattern at a time, in name order.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, pattern := range dirPatterns {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := filepath.Match(pattern, entry.Name()); ok {
				paths = append(paths, filepath.Join(dir, entry.Name()))
			}
		}
	}
	return paths, nil
}
