package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/peakclassifier/dsvio"
	"github.com/grailbio/peakclassifier/errcode"
)

// WrapUnlimited disables line wrapping on write: the whole sequence is
// emitted on one line.
const WrapUnlimited = 0

// Record is a single streamed FASTA record: a description line (including
// its leading '>') and a sequence that may have spanned arbitrarily many
// input lines. Sequence auto-grows (doubling) as Read accumulates lines,
// per the record buffer-reuse contract every format in this module shares.
type Record struct {
	Description string
	Sequence    dsvio.Buffer
}

// Init resets rec to the fresh state, reusing Sequence's backing array.
func (rec *Record) Init() {
	rec.Description = ""
	rec.Sequence.Reset()
}

// Free returns rec to the fresh state.
func (rec *Record) Free() { rec.Init() }

// Reader reads FASTA records one at a time from an underlying byte stream.
// Because a record's extent is only known once the next description line
// (or end of stream) is seen, Reader holds that next description line in a
// one-record lookahead buffer.
type Reader struct {
	r           *bufio.Reader
	pendingDesc string
	havePending bool
}

// NewReader constructs a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read parses the next FASTA record into rec. It returns ReadEOF at the end
// of the stream and ReadMismatch if the stream does not begin with a
// description line.
func (rd *Reader) Read(rec *Record) (errcode.ReadCode, error) {
	rec.Init()

	var desc string
	if rd.havePending {
		desc = rd.pendingDesc
		rd.havePending = false
	} else {
		line, err := rd.r.ReadString('\n')
		line = strings.TrimRight(line, "\n")
		if line == "" && err != nil {
			return errcode.ReadEOF, nil
		}
		if len(line) == 0 || line[0] != '>' {
			return errcode.ReadMismatch, fmt.Errorf("fasta: expected '>' description line, got %q", line)
		}
		desc = line
	}
	rec.Description = desc

	for {
		line, err := rd.r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\n")
		if len(trimmed) > 0 {
			if trimmed[0] == '>' {
				rd.pendingDesc = trimmed
				rd.havePending = true
				return errcode.ReadOK, nil
			}
			rec.Sequence.AppendString(trimmed)
		}
		if err != nil {
			return errcode.ReadOK, nil
		}
	}
}

// Writer writes FASTA records.
type Writer struct {
	w         io.Writer
	wrapWidth int
}

// NewWriter constructs a Writer. wrapWidth is the number of sequence
// characters per output line; pass WrapUnlimited to emit the whole
// sequence on a single line.
func NewWriter(w io.Writer, wrapWidth int) *Writer {
	return &Writer{w: w, wrapWidth: wrapWidth}
}

// Write emits rec's description line followed by its sequence, wrapped at
// the writer's configured width.
func (wr *Writer) Write(rec *Record) (errcode.WriteCode, error) {
	if _, err := io.WriteString(wr.w, rec.Description+"\n"); err != nil {
		return errcode.WriteFailure, err
	}
	seq := rec.Sequence.Bytes()
	if wr.wrapWidth <= 0 {
		if len(seq) > 0 {
			if _, err := wr.w.Write(seq); err != nil {
				return errcode.WriteFailure, err
			}
			if _, err := io.WriteString(wr.w, "\n"); err != nil {
				return errcode.WriteFailure, err
			}
		}
		return errcode.WriteOK, nil
	}
	for i := 0; i < len(seq); i += wr.wrapWidth {
		end := i + wr.wrapWidth
		if end > len(seq) {
			end = len(seq)
		}
		if _, err := wr.w.Write(seq[i:end]); err != nil {
			return errcode.WriteFailure, err
		}
		if _, err := io.WriteString(wr.w, "\n"); err != nil {
			return errcode.WriteFailure, err
		}
	}
	return errcode.WriteOK, nil
}
