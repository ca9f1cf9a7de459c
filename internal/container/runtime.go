// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs one-shot commands in a docker or podman container.
// The poppler-container rasterizer uses it to run pdftoppm on hosts where
// Poppler is not installed. Containers get no network and a read-only root
// filesystem; input arrives on stdin and output leaves on stdout.
package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

var (
	// ErrNoRuntime means neither docker nor podman is installed and running.
	ErrNoRuntime = errors.New("no container runtime available")

	// ErrImageMissing means the requested image is not present locally.
	ErrImageMissing = errors.New("container image not present")
)

// maxStderr bounds how much of a failed command's stderr ends up in its error.
const maxStderr = 512

// sandboxArgs follow "run" for every container started by Run.
var sandboxArgs = []string{"--rm", "-i", "--network=none", "--read-only"}

// Runtime starts containers from local images.
type Runtime interface {
	// Name returns the runtime binary name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary is on PATH and its
	// daemon or service answers "info".
	Available() bool

	// ImageExists returns nil when image is present locally and an error
	// wrapping ErrImageMissing otherwise.
	ImageExists(image string) error

	// Pull fetches image from its registry.
	Pull(image string) error

	// Run starts image with args, streams stdin into the container and the
	// container's stdout into stdout, and removes the container on exit.
	Run(image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// commander runs host processes. Tests substitute a scripted one.
type commander interface {
	LookPath(file string) (string, error)
	Quiet(name string, args ...string) error
	Stream(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type hostCommander struct{}

func (hostCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (hostCommander) Quiet(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (hostCommander) Stream(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	return Exec(name, args, stdin, stdout)
}

// Exec runs name on the host with stdin and stdout attached. On failure the
// last maxStderr bytes of its stderr are appended to the returned error.
func Exec(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := stderrTail(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func stderrTail(s string) string {
	msg := strings.TrimSpace(s)
	if len(msg) > maxStderr {
		msg = "..." + msg[len(msg)-maxStderr:]
	}
	return msg
}

// engineSpec describes one supported runtime CLI.
type engineSpec struct {
	bin string
	// inspect is the subcommand that exits zero iff an image is local.
	inspect []string
}

// engines are tried in order by DetectRuntime.
var engines = []engineSpec{
	{bin: "docker", inspect: []string{"image", "inspect"}},
	{bin: "podman", inspect: []string{"image", "exists"}},
}

type engine struct {
	spec engineSpec
	cmd  commander
}

func (e *engine) Name() string { return e.spec.bin }

func (e *engine) Available() bool {
	if _, err := e.cmd.LookPath(e.spec.bin); err != nil {
		return false
	}
	return e.cmd.Quiet(e.spec.bin, "info") == nil
}

func (e *engine) ImageExists(image string) error {
	args := append(append([]string{}, e.spec.inspect...), image)
	if err := e.cmd.Quiet(e.spec.bin, args...); err != nil {
		return fmt.Errorf("%w: %s in %s", ErrImageMissing, image, e.spec.bin)
	}
	return nil
}

func (e *engine) Pull(image string) error {
	if err := e.cmd.Stream(e.spec.bin, []string{"pull", image}, nil, io.Discard); err != nil {
		return fmt.Errorf("%s pull %s: %w", e.spec.bin, image, err)
	}
	return nil
}

func (e *engine) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	full := make([]string, 0, 1+len(sandboxArgs)+1+len(args))
	full = append(full, "run")
	full = append(full, sandboxArgs...)
	full = append(full, image)
	full = append(full, args...)
	if err := e.cmd.Stream(e.spec.bin, full, stdin, stdout); err != nil {
		return fmt.Errorf("running %s in %s: %w", image, e.spec.bin, err)
	}
	return nil
}

// DetectRuntime returns the first operational runtime, preferring docker
// over podman.
func DetectRuntime() (Runtime, error) {
	return detect(hostCommander{})
}

func detect(cmd commander) (Runtime, error) {
	for _, spec := range engines {
		e := &engine{spec: spec, cmd: cmd}
		if e.Available() {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: neither docker nor podman found or operational", ErrNoRuntime)
}

// EnsureImage returns nil when image is local. A missing image is pulled
// when pull is set and reported otherwise.
func EnsureImage(rt Runtime, image string, pull bool) error {
	err := rt.ImageExists(image)
	if err == nil || !pull {
		return err
	}
	if err := rt.Pull(image); err != nil {
		return err
	}
	return rt.ImageExists(image)
}
