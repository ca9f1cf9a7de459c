//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/slideview/internal/testpdf"
)

const demoDir = "demo"

// demoDecks are the synthetic presentations Demo generates, with page counts.
var demoDecks = map[string]int{
	"intro.pdf":   3,
	"roadmap.pdf": 5,
}

// Demo builds the CLI and generates a file-mode and a single-file viewer
// from synthetic PDFs under demo/.
func Demo() error {
	mg.Deps(Build)

	src := filepath.Join(demoDir, "pdfs")
	if err := os.MkdirAll(src, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", src, err)
	}
	for name, pages := range demoDecks {
		path := filepath.Join(src, name)
		if err := os.WriteFile(path, testpdf.Build(pages), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "--output", filepath.Join(demoDir, "viewer"), "--manifest", src); err != nil {
		return err
	}
	return sh.RunV(bin, "--output", filepath.Join(demoDir, "single"), "--single-file", src)
}
