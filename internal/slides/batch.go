// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/slideview/pkg/types"
)

var (
	// ErrNoInputs means argument resolution produced no PDF paths.
	ErrNoInputs = errors.New("no PDF files found")

	// ErrNoSlides means every resolved PDF failed or had no pages.
	ErrNoSlides = errors.New("no slides were processed successfully")
)

// BatchResult holds the slides of a batch run and per-file counts.
type BatchResult struct {
	// Slides is every extracted slide in input order, then page order.
	Slides []types.Slide

	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed or was skipped.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0 || r.Skipped > 0
}

// Presentations returns the number of distinct presentation names.
func (r BatchResult) Presentations() int {
	seen := make(map[string]struct{})
	for _, s := range r.Slides {
		seen[s.Presentation] = struct{}{}
	}
	return len(seen)
}

// SetupDirectories creates the output directory and, in file mode, its
// images/ and thumbnails/ subdirectories. Existing directories and their
// contents are left alone.
func SetupDirectories(cfg types.ViewerConfig) error {
	dirs := []string{cfg.OutputDir}
	if !cfg.SingleFile() {
		dirs = append(dirs,
			filepath.Join(cfg.OutputDir, ImagesDir),
			filepath.Join(cfg.OutputDir, ThumbnailsDir),
		)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ExtractBatch prepares the output directory and extracts each PDF in order,
// one at a time. A PDF that fails contributes no slides and does not stop
// the batch. The only error returned is a failure to create directories.
//
// Presentation names come from file names. When a name is already taken by
// an earlier input, the later input gets a numeric suffix (deck_2, deck_3)
// so slide IDs and asset names stay unique. Names are compared without
// regard to case, since Deck_page_001.png and deck_page_001.png are the
// same file on case-insensitive filesystems.
func (e *Extractor) ExtractBatch(pdfPaths []string) (BatchResult, error) {
	var result BatchResult
	if err := SetupDirectories(e.cfg); err != nil {
		return result, err
	}

	used := make(map[string]bool)
	for _, p := range pdfPaths {
		base := PresentationName(p)
		name := uniqueName(base, used)
		if name != base {
			fmt.Fprintf(e.out, "Warning: presentation name %q already used; slides from %s are listed as %q\n", base, p, name)
		}

		slides, status := e.extract(p, name)
		switch status {
		case outcomeConverted:
			result.Converted++
			if len(slides) > 0 {
				used[strings.ToLower(name)] = true
			}
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failed++
		}
		result.Slides = append(result.Slides, slides...)
	}

	fmt.Fprintf(e.out, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// uniqueName returns base, or base_N for the smallest N >= 2 whose lower-case
// form is not in used.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	return name
}
