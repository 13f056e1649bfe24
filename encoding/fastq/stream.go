package fastq

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/peakclassifier/dsvio"
	"github.com/grailbio/peakclassifier/errcode"
)

// Record is a single streamed FASTQ record. Sequence and Quality may each
// have spanned several physical lines and auto-grow (doubling) as Read
// accumulates them, per the record buffer-reuse contract shared by every
// format in this module. Separator is the "+" line verbatim, which may
// optionally repeat the description per the FASTQ format.
type Record struct {
	Description string
	Sequence    dsvio.Buffer
	Separator   string
	Quality     dsvio.Buffer
}

// Init resets rec to the fresh state, reusing Sequence and Quality's
// backing arrays.
func (rec *Record) Init() {
	rec.Description = ""
	rec.Sequence.Reset()
	rec.Separator = ""
	rec.Quality.Reset()
}

// Free returns rec to the fresh state.
func (rec *Record) Free() { rec.Init() }

// Reader reads FASTQ records one at a time from an underlying byte stream.
//
// Quality text may legally begin with '@', the byte that also starts a
// description line, so a line-by-line scan alone cannot tell where a
// record ends. Since the record's expected quality length is already known
// once its sequence has been read, Reader resolves the ambiguity by
// reading quality lines until that length is reached and only then peeking
// at the next byte: read at least one full line, then peek, made exact
// with the expected-length check.
type Reader struct {
	r      *bufio.Reader
	strict bool
	warn   io.Writer
}

// NewReader constructs a Reader. If strict is true, a seq_len/qual_len
// mismatch is reported as ReadBadData; otherwise it is non-fatal and, if
// warn is non-nil, a diagnostic is written to it.
func NewReader(r io.Reader, strict bool, warn io.Writer) *Reader {
	return &Reader{r: bufio.NewReader(r), strict: strict, warn: warn}
}

// Read parses the next FASTQ record into rec.
func (rd *Reader) Read(rec *Record) (errcode.ReadCode, error) {
	rec.Init()

	line, err := rd.r.ReadString('\n')
	desc := strings.TrimRight(line, "\n")
	if desc == "" && err != nil {
		return errcode.ReadEOF, nil
	}
	if len(desc) == 0 || desc[0] != '@' {
		return errcode.ReadMismatch, fmt.Errorf("fastq: expected '@' description line, got %q", desc)
	}
	rec.Description = desc
	if err != nil {
		return errcode.ReadTruncated, fmt.Errorf("fastq: eof immediately after description line")
	}

	for {
		line, err = rd.r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\n")
		if len(trimmed) > 0 && trimmed[0] == '+' {
			rec.Separator = trimmed
			break
		}
		rec.Sequence.AppendString(trimmed)
		if err != nil {
			return errcode.ReadTruncated, fmt.Errorf("fastq: eof before separator line")
		}
	}
	seqLen := rec.Sequence.Len()

	for {
		line, err = rd.r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\n")
		rec.Quality.AppendString(trimmed)
		if err != nil {
			break
		}
		if rec.Quality.Len() >= seqLen {
			peek, _ := rd.r.Peek(1)
			if len(peek) == 0 || peek[0] == '@' {
				break
			}
		}
	}

	if rec.Quality.Len() != seqLen {
		msg := fmt.Errorf("fastq: seq_len=%d != qual_len=%d for %q", seqLen, rec.Quality.Len(), rec.Description)
		if rd.strict {
			return errcode.ReadBadData, msg
		}
		if rd.warn != nil {
			fmt.Fprintf(rd.warn, "fastq_read: %v\n", msg)
		}
	}
	return errcode.ReadOK, nil
}

// Writer writes FASTQ records.
type Writer struct {
	w io.Writer
}

// NewWriter constructs a Writer.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Write emits rec as four lines: description, sequence, separator
// (defaulting to a bare "+" if rec.Separator is empty), and quality.
func (wr *Writer) Write(rec *Record) (errcode.WriteCode, error) {
	sep := rec.Separator
	if sep == "" {
		sep = "+"
	}
	lines := []string{rec.Description, rec.Sequence.String(), sep, rec.Quality.String()}
	for _, l := range lines {
		if _, err := io.WriteString(wr.w, l+"\n"); err != nil {
			return errcode.WriteFailure, err
		}
	}
	return errcode.WriteOK, nil
}
