// Package vcf implements the VCF variant-call format: nine required
// TAB-separated columns plus an optional single-sample column, 1-based
// POS, "##" meta lines and a single "#CHROM..." header line streamed
// verbatim to a side file rather than interpreted. The multi-sample
// column vector is reserved-but-unused surface, carried on Call as
// Samples, a growable slice the core classifier pipeline never
// populates past index 0.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/peakclassifier/errcode"
)

// Call is a single VCF data record.
type Call struct {
	Chrom     string
	Pos       int // 1-based
	ID        string
	Ref       string
	Alt       string
	QualRaw   string
	Qual      float64
	QualValid bool
	Filter    string
	Info      string
	Format    string

	// HasSample reports whether a tenth column was present on input; Write
	// reproduces that arity, mirroring bed.Feature.Fields.
	HasSample bool
	Sample    string

	// Samples is the reserved multi-sample vector: Read only ever fills a
	// single sample column, so Samples holds at most one entry after Read,
	// but callers may grow it further for their own use.
	Samples []string
}

// Init resets rec to the fresh state, reusing rec.Samples' backing array.
func (rec *Call) Init() {
	rec.Chrom = ""
	rec.Pos = 0
	rec.ID = ""
	rec.Ref = ""
	rec.Alt = ""
	rec.QualRaw = ""
	rec.Qual = 0
	rec.QualValid = false
	rec.Filter = ""
	rec.Info = ""
	rec.Format = ""
	rec.HasSample = false
	rec.Sample = ""
	rec.Samples = rec.Samples[:0]
}

// Free returns rec to the fresh state.
func (rec *Call) Free() { rec.Init() }

// ChromName, Start1, and End1 implement interval.Positioned. A VCF call's
// extent is its single POS; it is not extended by REF length.
func (rec *Call) ChromName() string { return rec.Chrom }
func (rec *Call) Start1() int       { return rec.Pos }
func (rec *Call) End1() int         { return rec.Pos }

// Reader reads VCF calls from an underlying byte stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader constructs a Reader.
func NewReader(r io.Reader) *Reader { return &Reader{r: bufio.NewReader(r)} }

// StreamHeader consumes consecutive "##" meta lines followed by exactly
// one "#CHROM..." header line, writing each verbatim (with its trailing
// newline) to sideFile as it is read. It leaves the stream positioned at
// the first data line.
func (rd *Reader) StreamHeader(sideFile io.Writer) error {
	for {
		peek, _ := rd.r.Peek(2)
		if len(peek) < 1 || peek[0] != '#' {
			return nil
		}
		isChromHeader := len(peek) == 2 && peek[1] != '#'
		line, err := rd.r.ReadString('\n')
		if _, werr := io.WriteString(sideFile, line); werr != nil {
			return werr
		}
		if err != nil {
			return nil
		}
		if isChromHeader {
			return nil
		}
	}
}

// Read parses the next VCF call into rec.
func (rd *Reader) Read(rec *Call) (errcode.ReadCode, error) {
	rec.Init()

	line, err := rd.r.ReadString('\n')
	if len(line) == 0 && err == io.EOF {
		return errcode.ReadEOF, nil
	}
	line = strings.TrimRight(line, "\n")
	if line == "" {
		if err == io.EOF {
			return errcode.ReadEOF, nil
		}
		return errcode.ReadTruncated, fmt.Errorf("vcf: empty line")
	}
	cols := strings.Split(line, "\t")
	if len(cols) < 9 {
		return errcode.ReadTruncated, fmt.Errorf("vcf: line has %d columns, want at least 9", len(cols))
	}
	if len(cols) > 10 {
		return errcode.ReadExtraCols, fmt.Errorf("vcf: line has %d columns, want at most 10", len(cols))
	}

	rec.Chrom = cols[0]
	pos, perr := strconv.Atoi(cols[1])
	if perr != nil {
		return errcode.ReadBadData, fmt.Errorf("vcf: bad pos %q: %w", cols[1], perr)
	}
	rec.Pos = pos
	rec.ID = cols[2]
	rec.Ref = cols[3]
	rec.Alt = cols[4]
	rec.QualRaw = cols[5]
	if cols[5] != "." {
		q, qerr := strconv.ParseFloat(cols[5], 64)
		if qerr != nil {
			return errcode.ReadBadData, fmt.Errorf("vcf: bad qual %q: %w", cols[5], qerr)
		}
		rec.Qual = q
		rec.QualValid = true
	}
	rec.Filter = cols[6]
	rec.Info = cols[7]
	rec.Format = cols[8]

	if len(cols) == 10 {
		rec.HasSample = true
		rec.Sample = cols[9]
		rec.Samples = append(rec.Samples, cols[9])
	}

	return errcode.ReadOK, nil
}

// Writer writes VCF calls.
type Writer struct {
	w io.Writer
}

// NewWriter constructs a Writer.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteHeader replays a header side-stream previously captured by
// Reader.StreamHeader, verbatim.
func (wr *Writer) WriteHeader(header []byte) error {
	_, err := wr.w.Write(header)
	return err
}

// Write emits rec as 9 tab-separated columns, plus a 10th if
// rec.HasSample, reproducing rec's original column arity.
func (wr *Writer) Write(rec *Call) (errcode.WriteCode, error) {
	cols := []string{
		rec.Chrom,
		strconv.Itoa(rec.Pos),
		rec.ID,
		rec.Ref,
		rec.Alt,
		rec.QualRaw,
		rec.Filter,
		rec.Info,
		rec.Format,
	}
	if rec.HasSample {
		cols = append(cols, rec.Sample)
	}
	if _, err := io.WriteString(wr.w, strings.Join(cols, "\t")+"\n"); err != nil {
		return errcode.WriteFailure, err
	}
	return errcode.WriteOK, nil
}
