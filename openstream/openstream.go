// Package openstream implements a stream-open contract: given a path,
// recognize its extension and transparently pipe through the indicated
// transformer on read or write. ".gz" is handled in-process with
// klauspost/compress's gzip; ".xz" is handled in-process with
// github.com/ulikunitz/xz; ".bz2" has no writer in the standard library
// and no such library anywhere in this module's dependency set, so it
// shells out to the external "bzip2" binary. ".bam"/".cram" (and ".sam"
// when extraArgs is non-empty) shell out to a caller-supplied SAM-like
// viewer binary.
package openstream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/grailbio/peakclassifier/errcode"
)

// cmdCloser waits for an external process to exit when closed, after its
// stdin/stdout pipe has already been closed by the caller.
type cmdCloser struct {
	cmd *exec.Cmd
}

func (c *cmdCloser) Close() error {
	return c.cmd.Wait()
}

// readHandle composes an io.Reader with the ordered list of closers needed
// to unwind whatever chain of decompressor/subprocess produced it.
type readHandle struct {
	io.Reader
	closers []io.Closer
}

func (h *readHandle) Close() error {
	var firstErr error
	for _, c := range h.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// writeHandle is the write-side counterpart of readHandle.
type writeHandle struct {
	io.Writer
	closers []io.Closer
}

func (h *writeHandle) Close() error {
	var firstErr error
	for _, c := range h.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// isSAMLike reports whether path's extension requires the external
// SAM-like viewer: always true for .bam/.cram, and true for .sam only
// when extraArgs forces it.
func isSAMLike(ext, extraArgs string) bool {
	switch ext {
	case ".bam", ".cram":
		return true
	case ".sam":
		return extraArgs != ""
	default:
		return false
	}
}

// Open opens path for reading, applying the stream-open contract. viewerBin
// and extraArgs configure the external SAM-like viewer used for .bam,
// .cram, and forced .sam inputs; they are ignored for every other
// extension.
func Open(path, viewerBin, extraArgs string) (io.ReadCloser, error) {
	ext := filepath.Ext(path)
	switch {
	case ext == ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errcode.DataError(fmt.Errorf("openstream: %s: %w", path, err))
		}
		return &readHandle{Reader: gz, closers: []io.Closer{gz, f}}, nil

	case ext == ".xz":
		f, err := os.Open(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, errcode.DataError(fmt.Errorf("openstream: %s: %w", path, err))
		}
		return &readHandle{Reader: xr, closers: []io.Closer{f}}, nil

	case ext == ".bz2":
		cmd := exec.Command("bzip2", "-d", "-c", path)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		if err := cmd.Start(); err != nil {
			return nil, errcode.ResourceError(fmt.Errorf("openstream: starting bzip2: %w", err))
		}
		return &readHandle{Reader: stdout, closers: []io.Closer{&cmdCloser{cmd}}}, nil

	case isSAMLike(ext, extraArgs):
		args := []string{"view", "--with-header"}
		if extraArgs != "" {
			args = append(args, strings.Fields(extraArgs)...)
		}
		args = append(args, path)
		cmd := exec.Command(viewerBin, args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		if err := cmd.Start(); err != nil {
			return nil, errcode.ResourceError(fmt.Errorf("openstream: starting %s: %w", viewerBin, err))
		}
		return &readHandle{Reader: stdout, closers: []io.Closer{&cmdCloser{cmd}}}, nil

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		return &readHandle{Reader: f, closers: []io.Closer{f}}, nil
	}
}

// Create opens path for writing, applying the stream-open contract. See
// Open for viewerBin/extraArgs semantics.
func Create(path, viewerBin, extraArgs string) (io.WriteCloser, error) {
	ext := filepath.Ext(path)
	switch {
	case ext == ".gz":
		f, err := os.Create(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		gz := gzip.NewWriter(f)
		return &writeHandle{Writer: gz, closers: []io.Closer{gz, f}}, nil

	case ext == ".xz":
		f, err := os.Create(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		xw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errcode.ResourceError(fmt.Errorf("openstream: %s: %w", path, err))
		}
		return &writeHandle{Writer: xw, closers: []io.Closer{xw, f}}, nil

	case ext == ".bz2":
		f, err := os.Create(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		cmd := exec.Command("bzip2", "-z", "-c")
		cmd.Stdout = f
		stdin, err := cmd.StdinPipe()
		if err != nil {
			f.Close()
			return nil, errcode.ResourceError(err)
		}
		if err := cmd.Start(); err != nil {
			f.Close()
			return nil, errcode.ResourceError(fmt.Errorf("openstream: starting bzip2: %w", err))
		}
		return &writeHandle{Writer: stdin, closers: []io.Closer{stdin, &cmdCloser{cmd}, f}}, nil

	case isSAMLike(ext, extraArgs):
		args := []string{"view", "--with-header"}
		if extraArgs != "" {
			args = append(args, strings.Fields(extraArgs)...)
		}
		args = append(args, "-o", path, "-")
		cmd := exec.Command(viewerBin, args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		if err := cmd.Start(); err != nil {
			return nil, errcode.ResourceError(fmt.Errorf("openstream: starting %s: %w", viewerBin, err))
		}
		return &writeHandle{Writer: stdin, closers: []io.Closer{stdin, &cmdCloser{cmd}}}, nil

	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, errcode.ResourceError(err)
		}
		return &writeHandle{Writer: f, closers: []io.Closer{f}}, nil
	}
}
