package gff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/peakclassifier/dsvio"
	"github.com/grailbio/peakclassifier/errcode"
)

// offsetCounter wraps an io.Reader and counts the total bytes it has ever
// handed to its caller (here, a bufio.Reader). Subtracting the bufio
// layer's Buffered() count from that total gives the stream's true logical
// read position, the same virtual-offset bookkeeping bgzf.Writer performs
// for VOffset in encoding/bgzf/writer.go, adapted from the write side to
// the read side.
type offsetCounter struct {
	io.Reader
	n int64
}

func (o *offsetCounter) Read(p []byte) (int, error) {
	n, err := o.Reader.Read(p)
	o.n += int64(n)
	return n, err
}

// Reader reads GFF3 features from an underlying byte stream.
type Reader struct {
	src       *offsetCounter
	r         *bufio.Reader
	fieldMask int
}

// NewReader constructs a Reader. fieldMask is the minimum number of columns
// a valid record must carry; pass 9 to require every GFF3 column (the
// sentinel "###" line is always accepted regardless of fieldMask).
func NewReader(r io.Reader, fieldMask int) *Reader {
	src := &offsetCounter{Reader: r}
	return &Reader{src: src, r: bufio.NewReader(src), fieldMask: fieldMask}
}

func (rd *Reader) offset() int64 { return rd.src.n - int64(rd.r.Buffered()) }

// HeaderLine reports whether line (without its trailing newline) is a GFF3
// pragma/comment line ("##gff-version 3", "#comment", ...) that must be
// passed through verbatim. The bare "###" sentinel is deliberately excluded:
// it is a data record, not a header line.
func HeaderLine(line string) bool {
	return strings.HasPrefix(line, "#") && line != "###"
}

// SkipHeader consumes consecutive pragma/comment lines and returns them
// verbatim (including trailing newlines) as a side-stream for later replay,
// leaving the stream positioned at the first non-header line. Calling it
// again immediately afterward returns an empty slice.
func (rd *Reader) SkipHeader() ([]byte, error) {
	var header []byte
	for {
		peek, _ := rd.r.Peek(3)
		if len(peek) == 0 || peek[0] != '#' || string(peek) == "###" {
			return header, nil
		}
		line, err := rd.r.ReadString('\n')
		header = append(header, line...)
		if err != nil {
			return header, nil
		}
	}
}

// Read parses the next GFF3 record into rec. A line consisting solely of
// "###" is mapped to a sentinel record (rec.Sentinel, rec.Type == "###").
// It returns one of ReadOK, ReadEOF, ReadTruncated, ReadMismatch, or
// ReadBadData.
func (rd *Reader) Read(rec *Feature) (errcode.ReadCode, error) {
	rec.Init()
	rec.Offset = rd.offset()

	var cols [9]string
	n := 0
	for n < 9 {
		var f dsvio.GrowableField
		delim, err := f.ReadGrowable(rd.r, &dsvio.TSVDelims)
		if err == io.EOF {
			if n == 0 {
				return errcode.ReadEOF, nil
			}
			return errcode.ReadTruncated, fmt.Errorf("gff: unexpected eof after %d columns", n)
		}
		cols[n] = f.String()
		n++
		if delim == dsvio.DelimNewline || delim == dsvio.DelimEOF {
			break
		}
	}

	if n == 1 && cols[0] == "###" {
		rec.Sentinel = true
		rec.Type = "###"
		return errcode.ReadOK, nil
	}
	if n < rd.fieldMask {
		return errcode.ReadTruncated, fmt.Errorf("gff: line has %d columns, want at least %d", n, rd.fieldMask)
	}
	if n != 9 {
		return errcode.ReadMismatch, fmt.Errorf("gff: want 9 columns, got %d", n)
	}

	rec.SeqID = cols[0]
	rec.Source = cols[1]
	rec.Type = cols[2]

	start, err := strconv.ParseUint(cols[3], 10, 64)
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("gff: bad start %q: %w", cols[3], err)
	}
	end, err := strconv.ParseUint(cols[4], 10, 64)
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("gff: bad end %q: %w", cols[4], err)
	}
	if start > end {
		return errcode.ReadBadData, fmt.Errorf("gff: start %d > end %d", start, end)
	}
	rec.Start, rec.End = int(start), int(end)

	rec.ScoreRaw = cols[5]
	if cols[5] == "." {
		rec.ScoreValid = false
	} else {
		score, err := strconv.ParseFloat(cols[5], 64)
		if err != nil {
			return errcode.ReadBadData, fmt.Errorf("gff: bad score %q: %w", cols[5], err)
		}
		rec.Score, rec.ScoreValid = score, true
	}

	if len(cols[6]) != 1 {
		return errcode.ReadBadData, fmt.Errorf("gff: bad strand %q", cols[6])
	}
	rec.Strand = cols[6][0]

	if len(cols[7]) != 1 {
		return errcode.ReadBadData, fmt.Errorf("gff: bad phase %q", cols[7])
	}
	rec.Phase = cols[7][0]

	rec.Attributes = cols[8]
	rec.ID, rec.Name, rec.Parent = parseAttributes(rec.Attributes)

	return errcode.ReadOK, nil
}

// parseAttributes eagerly extracts the ID, Name, and Parent attributes from
// a GFF3 "key=value[;...]" attributes column. It scans
// key/value pairs without mutating attrs (string slicing never copies or
// writes through the backing array), so the caller's original attributes
// text is left untouched for Write to reproduce verbatim.
func parseAttributes(attrs string) (id, name, parent string) {
	name, parent = "unnamed", "noparent"
	rest := attrs
	for rest != "" {
		var pair string
		if i := strings.IndexByte(rest, ';'); i >= 0 {
			pair, rest = rest[:i], rest[i+1:]
		} else {
			pair, rest = rest, ""
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		switch key {
		case "ID":
			id = value
		case "Name":
			name = value
		case "Parent":
			parent = value
		}
	}
	return id, name, parent
}
