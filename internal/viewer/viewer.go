// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package viewer renders the static HTML slide browser. The page template,
// stylesheet and script are embedded; slide data is escaped by html/template
// for each context it lands in (element text, attributes, URLs and the JSON
// data block).
package viewer

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/slideview/pkg/types"
)

// IndexFile is the name of the generated page inside the output directory.
const IndexFile = "index.html"

//go:embed assets/index.html.tmpl assets/viewer.css assets/viewer.js
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))

// Options controls page rendering.
type Options struct {
	// Title is the page heading. Empty means types.DefaultTitle.
	Title string

	// SingleFile marks imagery as inline data URIs; the title then carries
	// an estimate of the file size.
	SingleFile bool

	// Version is written into the generator meta tag.
	Version string
}

// Presentation is the slides of one presentation, in page order.
type Presentation struct {
	Name   string
	Slides []types.Slide
}

// Group partitions slides by presentation. Groups appear in the order their
// first slide appears; slides keep their relative order within a group.
func Group(slides []types.Slide) []Presentation {
	var groups []Presentation
	index := make(map[string]int)
	for _, s := range slides {
		i, ok := index[s.Presentation]
		if !ok {
			i = len(groups)
			index[s.Presentation] = i
			groups = append(groups, Presentation{Name: s.Presentation})
		}
		groups[i].Slides = append(groups[i].Slides, s)
	}
	return groups
}

// EstimateInlineSize approximates the decoded size in bytes of all embedded
// base64 payloads: three bytes per four characters.
func EstimateInlineSize(slides []types.Slide) int64 {
	var chars int
	for _, s := range slides {
		chars += len(s.Image) + len(s.Thumbnail)
	}
	return int64(float64(chars) * 0.75)
}

// sizeNote formats the title suffix for single-file pages.
func sizeNote(slides []types.Slide) string {
	mb := float64(EstimateInlineSize(slides)) / (1024 * 1024)
	return fmt.Sprintf(" (Estimated size: ~%.1fMB)", mb)
}

// card is one slide as the template sees it.
type card struct {
	ID           string
	Presentation string
	Page         int
	Thumbnail    template.URL
}

type section struct {
	Name  string
	Cards []card
}

type pageData struct {
	Title      string
	SizeNote   string
	SingleFile bool
	Version    string
	Slides     []types.Slide
	Sections   []section
	Style      template.CSS
	Script     template.JS
}

// assetURL turns a slide image reference into a URL. Data URIs are produced
// by this program and pass through; relative paths are escaped per segment.
func assetURL(ref string) template.URL {
	if strings.HasPrefix(ref, "data:") {
		return template.URL(ref)
	}
	segments := strings.Split(ref, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return template.URL(strings.Join(segments, "/"))
}

func buildPage(slides []types.Slide, opts Options) (pageData, error) {
	style, err := assets.ReadFile("assets/viewer.css")
	if err != nil {
		return pageData{}, err
	}
	script, err := assets.ReadFile("assets/viewer.js")
	if err != nil {
		return pageData{}, err
	}

	data := pageData{
		Title:      opts.Title,
		SingleFile: opts.SingleFile,
		Version:    opts.Version,
		Slides:     slides,
		Style:      template.CSS(style),
		Script:     template.JS(script),
	}
	if data.Title == "" {
		data.Title = types.DefaultTitle
	}
	if data.Version == "" {
		data.Version = "dev"
	}
	if data.Slides == nil {
		data.Slides = []types.Slide{}
	}
	if opts.SingleFile {
		data.SizeNote = sizeNote(slides)
	}

	for _, g := range Group(slides) {
		sec := section{Name: g.Name, Cards: make([]card, len(g.Slides))}
		for i, s := range g.Slides {
			sec.Cards[i] = card{
				ID:           s.ID,
				Presentation: s.Presentation,
				Page:         s.Page,
				Thumbnail:    assetURL(s.Thumbnail),
			}
		}
		data.Sections = append(data.Sections, sec)
	}
	return data, nil
}

// Render writes the viewer page for slides to w.
func Render(w io.Writer, slides []types.Slide, opts Options) error {
	data, err := buildPage(slides, opts)
	if err != nil {
		return fmt.Errorf("loading viewer assets: %w", err)
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering viewer: %w", err)
	}
	return nil
}

// WriteIndex renders the viewer into outDir/index.html, replacing any
// existing file atomically. It returns the path and the size written.
func WriteIndex(outDir string, slides []types.Slide, opts Options) (string, int64, error) {
	path := filepath.Join(outDir, IndexFile)
	if err := writeAtomic(path, func(w io.Writer) error {
		return Render(w, slides, opts)
	}); err != nil {
		return "", 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	return path, info.Size(), nil
}

// writeAtomic writes through a temp file in the target directory, syncs it,
// and renames it over path.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
