// Package dsvio implements the low-level delimiter-separated-value field
// reader shared by every line-oriented format reader in this module (BED,
// GFF3, SAM, VCF). It reads one field at a time from a byte stream, either
// into a caller-supplied fixed buffer or into a buffer the package grows and
// the caller reuses across records.
//
// The scanning approach tracks the terminating delimiter explicitly rather
// than splitting a whole line up front, generalized from "first three
// whitespace-delimited tokens of a BED line" to "the next field up to an
// arbitrary delimiter set, with growable reuse."
package dsvio

import (
	"bufio"
	"io"

	gunsafe "github.com/grailbio/base/unsafe"
)

// Delim identifies how a field read terminated.
type Delim int

const (
	// DelimNone is the zero value; never returned by a read.
	DelimNone Delim = iota
	// DelimTab terminated the field ('\t').
	DelimTab
	// DelimNewline terminated the field ('\n').
	DelimNewline
	// DelimOther terminated the field (a caller-supplied delimiter byte
	// other than tab/newline, used by DSV mode).
	DelimOther
	// DelimEOF means the stream ended at or before the field's end; Len
	// distinguishes "ended at the start of a field" (Len==0 and this is the
	// very first read after a previous complete line) from "ended mid-field."
	DelimEOF
)

// TSVDelims is the default delimiter set for read_field/read_field_growable:
// TAB separates fields, LF ends the line.
var TSVDelims = [256]bool{'\t': true, '\n': true}

// isDelim reports whether b is one of the active delimiters.
func isDelim(set *[256]bool, b byte) bool { return set[b] }

func classify(set *[256]bool, b byte) Delim {
	switch {
	case b == '\t' && set['\t']:
		return DelimTab
	case b == '\n' && set['\n']:
		return DelimNewline
	default:
		return DelimOther
	}
}

// ReadField reads the next delimited field from r into buf, stopping at any
// delimiter active in delims (pass &TSVDelims for plain TSV), and returns
// the number of bytes stored plus the terminating delimiter. At most
// len(buf) bytes are stored; if the field is longer, the remainder up to
// the next delimiter is discarded and ok is false, signalling an overflow
// diagnostic callers should emit.
//
// A delimiter byte is always consumed from the stream (it is never part of
// the field); DelimEOF is returned, with ok true, when the stream ends
// before any delimiter is seen (the bytes read so far, up to len(buf), are
// still stored).
func ReadField(r *bufio.Reader, buf []byte, delims *[256]bool) (n int, delim Delim, ok bool) {
	ok = true
	max := len(buf)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if n == 0 && err == io.EOF {
				return 0, DelimEOF, ok
			}
			return n, DelimEOF, ok
		}
		if isDelim(delims, b) {
			return n, classify(delims, b), ok
		}
		if n < max {
			buf[n] = b
			n++
		} else {
			ok = false
		}
	}
}

// growable is the state behind a reusable, caller-owned field buffer,
// embedded by record types that need the init/read/write/free buffer-reuse
// contract every format in this module shares.
type growable struct {
	buf []byte
	len int
}

// Reset marks the buffer empty without releasing its capacity, the "free"
// half of the init/read/write/free buffer contract.
func (g *growable) Reset() { g.len = 0 }

// Bytes returns the currently populated portion of the buffer. The slice is
// only valid until the next call to ReadFieldGrowable; callers must copy it
// if they need it to outlive that call.
func (g *growable) Bytes() []byte { return g.buf[:g.len] }

// String is a convenience wrapper around Bytes for read-only use within the
// lifetime of the current record.
func (g *growable) String() string { return gunsafe.BytesToString(g.Bytes()) }

// grow doubles the buffer (or allocates an initial one sized for at least
// need bytes): reallocates buf (doubling) when full, with a nil buf
// triggering initial allocation.
func (g *growable) grow(need int) {
	if cap(g.buf) >= need {
		g.buf = g.buf[:cap(g.buf)]
		return
	}
	newCap := cap(g.buf) * 2
	if newCap < 64 {
		newCap = 64
	}
	for newCap < need {
		newCap *= 2
	}
	newBuf := make([]byte, newCap)
	copy(newBuf, g.buf[:g.len])
	g.buf = newBuf
}

// Buffer is an exported growable byte buffer with the same doubling-growth
// rule as growable, for record types that accumulate bytes across more than
// one read call — FASTA and FASTQ sequence/quality lines, which may span
// arbitrarily many physical lines before the record ends.
type Buffer struct {
	growable
}

// AppendByte appends a single byte, growing the buffer if needed.
func (b *Buffer) AppendByte(c byte) {
	if b.len == len(b.buf) {
		b.grow(b.len + 1)
	}
	b.buf[b.len] = c
	b.len++
}

// AppendString appends s, growing the buffer if needed.
func (b *Buffer) AppendString(s string) {
	need := b.len + len(s)
	if need > len(b.buf) {
		b.grow(need)
	}
	copy(b.buf[b.len:need], s)
	b.len = need
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int { return b.len }

// GrowableField is a reusable field buffer: ReadGrowable grows it
// (doubling) as needed instead of truncating, giving it unbounded
// capacity.
type GrowableField struct {
	growable
}

// ReadGrowable reads the next delimited field from r into the field's
// internal buffer, growing it as needed, and returns the terminating
// delimiter. The returned byte slice (via Bytes/String) is reused by the
// next call.
func (f *GrowableField) ReadGrowable(r *bufio.Reader, delims *[256]bool) (delim Delim, err error) {
	f.len = 0
	for {
		b, rerr := r.ReadByte()
		if rerr != nil {
			if f.len == 0 && rerr == io.EOF {
				return DelimEOF, io.EOF
			}
			return DelimEOF, nil
		}
		if isDelim(delims, b) {
			return classify(delims, b), nil
		}
		if f.len == len(f.buf) {
			f.grow(f.len + 1)
		}
		f.buf[f.len] = b
		f.len++
	}
}

// SkipField advances r past the next delimited field without storing it,
// returning the number of bytes skipped and the terminating delimiter.
func SkipField(r *bufio.Reader, delims *[256]bool) (n int, delim Delim) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return n, DelimEOF
		}
		if isDelim(delims, b) {
			return n, classify(delims, b)
		}
		n++
	}
}

// SkipRestOfLine consumes bytes through and including the next '\n', or
// until end-of-stream.
func SkipRestOfLine(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}
