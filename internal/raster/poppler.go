// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/slideview/internal/container"
)

const binPdftoppm = "pdftoppm"

// commandRunner runs pdftoppm with the given arguments, piping stdin and
// stdout. It is satisfied by a local binary or a container.
type commandRunner interface {
	Run(args []string, stdin io.Reader, stdout io.Writer) error
}

// localRunner executes the pdftoppm binary found on PATH.
type localRunner struct {
	bin string
}

func (l localRunner) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	if err := container.Exec(l.bin, args, stdin, stdout); err != nil {
		return fmt.Errorf("%s: %w", l.bin, err)
	}
	return nil
}

// containerRunner executes pdftoppm inside a container image.
type containerRunner struct {
	runtime container.Runtime
	image   string
}

func (c containerRunner) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	cmdArgs := append([]string{binPdftoppm}, args...)
	return c.runtime.Run(c.image, cmdArgs, stdin, stdout)
}

// PopplerRasterizer renders pages one at a time with pdftoppm, reading the
// PDF from stdin and the PNG from stdout. The page count comes from parsing
// the PDF's page tree.
type PopplerRasterizer struct {
	name       string
	runner     commandRunner
	countPages func(pdfPath string) (int, error)
	log        *slog.Logger
}

func checkPdftoppm() error {
	if _, err := exec.LookPath(binPdftoppm); err != nil {
		return fmt.Errorf("%s not found on PATH (install poppler-utils): %w", binPdftoppm, err)
	}
	return nil
}

// NewPopplerRasterizer uses the pdftoppm binary installed on this host.
func NewPopplerRasterizer(opts Options) (*PopplerRasterizer, error) {
	if err := checkPdftoppm(); err != nil {
		return nil, err
	}
	return &PopplerRasterizer{
		name:       BackendPoppler,
		runner:     localRunner{bin: binPdftoppm},
		countPages: pageCount,
		log:        opts.logger(),
	}, nil
}

func popplerContainerRuntime(opts Options) (container.Runtime, error) {
	rt, err := container.DetectRuntime()
	if err != nil {
		return nil, err
	}
	ref := opts.containerImage()
	if err := container.EnsureImage(rt, ref, opts.PullImage); err != nil {
		return nil, fmt.Errorf("poppler image unavailable (pull %s or pass --pull-image): %w", ref, err)
	}
	return rt, nil
}

// NewPopplerContainerRasterizer runs pdftoppm through docker or podman. The
// image must be present locally unless opts.PullImage is set.
func NewPopplerContainerRasterizer(opts Options) (*PopplerRasterizer, error) {
	rt, err := popplerContainerRuntime(opts)
	if err != nil {
		return nil, err
	}
	return &PopplerRasterizer{
		name:       BackendPopplerContainer,
		runner:     containerRunner{runtime: rt, image: opts.containerImage()},
		countPages: pageCount,
		log:        opts.logger(),
	}, nil
}

func (r *PopplerRasterizer) Name() string { return r.name }

func (r *PopplerRasterizer) Rasterize(pdfPath string, dpi int) ([]image.Image, error) {
	n, err := r.countPages(pdfPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", pdfPath, err)
	}
	r.log.Debug("poppler rendering document", "path", pdfPath, "pages", n, "dpi", dpi, "backend", r.name)

	pages := make([]image.Image, 0, n)
	for page := 1; page <= n; page++ {
		var out bytes.Buffer
		if err := r.runner.Run(pdftoppmArgs(page, dpi), bytes.NewReader(data), &out); err != nil {
			return nil, fmt.Errorf("rendering page %d of %s: %w", page, pdfPath, err)
		}
		img, err := png.Decode(&out)
		if err != nil {
			return nil, fmt.Errorf("decoding page %d of %s: %w", page, pdfPath, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

func (r *PopplerRasterizer) Close() error { return nil }

// pdftoppmArgs renders a single page from stdin to a PNG on stdout.
func pdftoppmArgs(page, dpi int) []string {
	p := strconv.Itoa(page)
	return []string{
		"-png",
		"-r", strconv.Itoa(dpi),
		"-f", p,
		"-l", p,
		"-singlefile",
		"-", "-",
	}
}

// pageCount reads the page tree of the PDF at path.
func pageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
