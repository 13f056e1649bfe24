// Package sam implements the 11-required-column text SAM alignment
// format: TAB-separated, 1-based POS, with a 12th tag field (if present)
// discarded on read. BAM/CRAM input reaches this
// reader already converted to text by the external stream-open contract in
// package openstream; this package itself only ever parses SAM text.
package sam

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/peakclassifier/dsvio"
	"github.com/grailbio/peakclassifier/errcode"
)

// Alignment is a single SAM record. Seq, Qual, and Cigar are growable
// fields reused across reads, per the record buffer-reuse contract shared
// by every format in this module.
type Alignment struct {
	QName string
	Flag  int
	RName string
	Pos   int // 1-based
	MapQ  int
	Cigar dsvio.Buffer
	RNext string
	PNext int
	TLen  int
	Seq   dsvio.Buffer
	Qual  dsvio.Buffer
}

// Init resets rec to the fresh state, reusing Seq/Qual/Cigar's backing
// arrays.
func (rec *Alignment) Init() {
	rec.QName = ""
	rec.Flag = 0
	rec.RName = ""
	rec.Pos = 0
	rec.MapQ = 0
	rec.Cigar.Reset()
	rec.RNext = ""
	rec.PNext = 0
	rec.TLen = 0
	rec.Seq.Reset()
	rec.Qual.Reset()
}

// Free returns rec to the fresh state.
func (rec *Alignment) Free() { rec.Init() }

// End returns the alignment's last covered reference position (1-based
// inclusive): pos + seq_len - 1, the end used for SAM alignments in the
// heterogeneous comparator.
func (rec *Alignment) End() int { return rec.Pos + rec.Seq.Len() - 1 }

// ChromName, Start1, and End1 implement interval.Positioned.
func (rec *Alignment) ChromName() string { return rec.RName }
func (rec *Alignment) Start1() int       { return rec.Pos }
func (rec *Alignment) End1() int         { return rec.End() }

// Reader reads SAM alignments from an underlying byte stream. It does not
// interpret "@"-prefixed header lines beyond skipping them; callers that
// need the header text should capture it with SkipHeader first.
type Reader struct {
	r *bufio.Reader
}

// NewReader constructs a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// SkipHeader consumes consecutive "@"-prefixed header lines and returns
// them verbatim as a side-stream for later replay, leaving the stream
// positioned at the first alignment record.
func (rd *Reader) SkipHeader() ([]byte, error) {
	var header []byte
	for {
		peek, _ := rd.r.Peek(1)
		if len(peek) == 0 || peek[0] != '@' {
			return header, nil
		}
		line, err := rd.r.ReadString('\n')
		header = append(header, line...)
		if err != nil {
			return header, nil
		}
	}
}

// Read parses the next SAM alignment into rec. A 12th tag column, if
// present, is discarded.
func (rd *Reader) Read(rec *Alignment) (errcode.ReadCode, error) {
	rec.Init()

	var cols [11]string
	n := 0
	for n < 12 {
		var f dsvio.GrowableField
		delim, err := f.ReadGrowable(rd.r, &dsvio.TSVDelims)
		if err == io.EOF {
			if n == 0 {
				return errcode.ReadEOF, nil
			}
			return errcode.ReadTruncated, fmt.Errorf("sam: unexpected eof after %d columns", n)
		}
		if n < 11 {
			cols[n] = f.String()
		}
		n++
		if delim == dsvio.DelimNewline || delim == dsvio.DelimEOF {
			break
		}
	}
	if n < 11 {
		return errcode.ReadTruncated, fmt.Errorf("sam: line has %d columns, want at least 11", n)
	}

	rec.QName = cols[0]
	flag, err := strconv.Atoi(cols[1])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("sam: bad flag %q: %w", cols[1], err)
	}
	rec.Flag = flag
	rec.RName = cols[2]
	pos, err := strconv.Atoi(cols[3])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("sam: bad pos %q: %w", cols[3], err)
	}
	rec.Pos = pos
	mapq, err := strconv.Atoi(cols[4])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("sam: bad mapq %q: %w", cols[4], err)
	}
	rec.MapQ = mapq
	rec.Cigar.AppendString(cols[5])
	rec.RNext = cols[6]
	pnext, err := strconv.Atoi(cols[7])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("sam: bad pnext %q: %w", cols[7], err)
	}
	rec.PNext = pnext
	tlen, err := strconv.Atoi(cols[8])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("sam: bad tlen %q: %w", cols[8], err)
	}
	rec.TLen = tlen
	rec.Seq.AppendString(cols[9])
	rec.Qual.AppendString(cols[10])

	return errcode.ReadOK, nil
}

// Writer writes SAM alignments.
type Writer struct {
	w io.Writer
}

// NewWriter constructs a Writer.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteHeader replays a header side-stream previously captured by
// Reader.SkipHeader, verbatim.
func (wr *Writer) WriteHeader(header []byte) error {
	_, err := wr.w.Write(header)
	return err
}

// Write emits rec as 11 tab-separated columns. The discarded 12th tag
// column is never reconstructed.
func (wr *Writer) Write(rec *Alignment) (errcode.WriteCode, error) {
	cols := []string{
		rec.QName,
		strconv.Itoa(rec.Flag),
		rec.RName,
		strconv.Itoa(rec.Pos),
		strconv.Itoa(rec.MapQ),
		rec.Cigar.String(),
		rec.RNext,
		strconv.Itoa(rec.PNext),
		strconv.Itoa(rec.TLen),
		rec.Seq.String(),
		rec.Qual.String(),
	}
	if _, err := io.WriteString(wr.w, strings.Join(cols, "\t")+"\n"); err != nil {
		return errcode.WriteFailure, err
	}
	return errcode.WriteOK, nil
}
