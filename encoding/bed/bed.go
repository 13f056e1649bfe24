// Package bed implements the BED interval format (3..12 tab-separated
// columns, 0-based half-open coordinates): header passthrough,
// column-count-preserving round trip, and the field-level validation
// BED's optional-but-grouped columns require.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/peakclassifier/dsvio"
	"github.com/grailbio/peakclassifier/errcode"
)

// Strand values, shared by every record type with a strand column.
const (
	StrandPlus  byte = '+'
	StrandMinus byte = '-'
	StrandNone  byte = '.'
)

// Block is one entry of a BED12 block list (relative size and start).
type Block struct {
	Size  int
	Start int
}

// Feature is a single BED record. Fields records how many leading columns
// were present on input (3..12); Write reproduces that exact arity.
type Feature struct {
	Chrom      string
	ChromStart int // 0-based
	ChromEnd   int // half-open
	Name       string
	Score      int // valid only if Fields >= 5; 0..1000
	Strand     byte
	ThickStart int
	ThickEnd   int
	ItemRGB    string
	Blocks     []Block
	Fields     int
}

// Init resets rec to the fresh (unpopulated) state, reusing rec.Blocks'
// backing array, matching the init/read/write/free buffer-reuse contract
// every format in this module shares.
func (rec *Feature) Init() {
	rec.Chrom = ""
	rec.ChromStart, rec.ChromEnd = 0, 0
	rec.Name = ""
	rec.Score = 0
	rec.Strand = StrandNone
	rec.ThickStart, rec.ThickEnd = 0, 0
	rec.ItemRGB = ""
	rec.Blocks = rec.Blocks[:0]
	rec.Fields = 0
}

// Free returns rec to the fresh state. It is an alias for Init: BED
// features own no resources beyond Go-GC'd slices/strings.
func (rec *Feature) Free() { rec.Init() }

// ChromName, Start1, and End1 implement interval.Positioned: BED's 0-based
// half-open ChromStart becomes 1-based inclusive by adding 1, and the
// half-open ChromEnd is already the 1-based inclusive end, so comparisons
// made through these methods need no further conversion.
func (rec *Feature) ChromName() string { return rec.Chrom }
func (rec *Feature) Start1() int       { return rec.ChromStart + 1 }
func (rec *Feature) End1() int         { return rec.ChromEnd }

// SetScore range-checks and sets Score (0..1000).
func (rec *Feature) SetScore(score int) errcode.DataCode {
	if score < 0 || score > 1000 {
		return errcode.DataOutOfRange
	}
	rec.Score = score
	return errcode.DataOK
}

// SetFields range-checks and sets the stored column arity (3..12).
func (rec *Feature) SetFields(n int) errcode.DataCode {
	if n < 3 || n > 12 {
		return errcode.DataOutOfRange
	}
	rec.Fields = n
	return errcode.DataOK
}

// validArity reports whether n is a legal BED column count: the
// thick-start/end pair (7,8) and the block triple (10,11,12) must appear
// together, never partially.
func validArity(n int) bool {
	switch n {
	case 3, 4, 5, 6, 8, 9, 12:
		return true
	default:
		return false
	}
}

// HeaderLine reports whether line (without its trailing newline) is a BED
// header/comment line that must be passed through verbatim.
func HeaderLine(line string) bool {
	return strings.HasPrefix(line, "browser") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "#")
}

// Reader reads BED features from an underlying byte stream.
type Reader struct {
	r         *bufio.Reader
	fieldMask int // minimum required column count
}

// NewReader constructs a Reader. fieldMask is the minimum number of
// columns a valid record must carry; pass 3 to accept any valid BED
// record.
func NewReader(r io.Reader, fieldMask int) *Reader {
	if fieldMask < 3 {
		fieldMask = 3
	}
	return &Reader{r: bufio.NewReader(r), fieldMask: fieldMask}
}

// SkipHeader consumes consecutive header lines (lines beginning with
// "browser", "track", or "#") and returns them verbatim (including
// trailing newlines) as a side-stream for later replay. It leaves the
// stream positioned at the first non-header line. Calling it again
// immediately afterward returns an empty slice.
func (rd *Reader) SkipHeader() ([]byte, error) {
	var header []byte
	for {
		peek, _ := rd.r.Peek(7) // longest prefix we need to recognize is "browser"
		if len(peek) == 0 || !HeaderLine(string(peek)) {
			return header, nil
		}
		line, err := rd.r.ReadString('\n')
		header = append(header, line...)
		if err != nil {
			return header, nil
		}
	}
}

// Read parses the next BED record into rec, reusing rec.Blocks' backing
// array. It returns one of ReadOK, ReadEOF, ReadTruncated, ReadMismatch,
// ReadExtraCols, or ReadBadData.
func (rd *Reader) Read(rec *Feature) (errcode.ReadCode, error) {
	rec.Init()

	var cols [12]string
	n := 0
	var lastDelim dsvio.Delim
	for n < 13 {
		var buf dsvio.GrowableField
		delim, err := buf.ReadGrowable(rd.r, &dsvio.TSVDelims)
		if err == io.EOF {
			if n == 0 {
				return errcode.ReadEOF, nil
			}
			return errcode.ReadTruncated, fmt.Errorf("bed: unexpected eof after %d columns", n)
		}
		if n < 12 {
			cols[n] = buf.String()
		}
		n++
		lastDelim = delim
		if delim == dsvio.DelimNewline || delim == dsvio.DelimEOF {
			break
		}
	}
	if n > 12 {
		return errcode.ReadExtraCols, fmt.Errorf("bed: line has more than 12 columns")
	}
	if n < rd.fieldMask {
		return errcode.ReadTruncated, fmt.Errorf("bed: line has %d columns, want at least %d", n, rd.fieldMask)
	}
	if !validArity(n) {
		return errcode.ReadMismatch, fmt.Errorf("bed: %d columns present without its paired columns", n)
	}
	_ = lastDelim

	rec.Chrom = cols[0]
	start, err := strconv.Atoi(cols[1])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("bed: bad chromStart %q: %w", cols[1], err)
	}
	end, err := strconv.Atoi(cols[2])
	if err != nil {
		return errcode.ReadBadData, fmt.Errorf("bed: bad chromEnd %q: %w", cols[2], err)
	}
	if start > end {
		return errcode.ReadBadData, fmt.Errorf("bed: chromStart %d > chromEnd %d", start, end)
	}
	rec.ChromStart, rec.ChromEnd = start, end
	rec.Fields = n
	rec.Strand = StrandNone

	if n >= 4 {
		rec.Name = cols[3]
	}
	if n >= 5 {
		score, err := strconv.Atoi(cols[4])
		if err != nil {
			return errcode.ReadBadData, fmt.Errorf("bed: bad score %q: %w", cols[4], err)
		}
		if code := rec.SetScore(score); code != errcode.DataOK {
			return errcode.ReadBadData, fmt.Errorf("bed: score %d out of range", score)
		}
	}
	if n >= 6 {
		switch cols[5] {
		case "+":
			rec.Strand = StrandPlus
		case "-":
			rec.Strand = StrandMinus
		case ".":
			rec.Strand = StrandNone
		default:
			return errcode.ReadBadData, fmt.Errorf("bed: bad strand %q", cols[5])
		}
	}
	if n >= 8 {
		rec.ThickStart, err = strconv.Atoi(cols[6])
		if err != nil {
			return errcode.ReadBadData, fmt.Errorf("bed: bad thickStart %q: %w", cols[6], err)
		}
		rec.ThickEnd, err = strconv.Atoi(cols[7])
		if err != nil {
			return errcode.ReadBadData, fmt.Errorf("bed: bad thickEnd %q: %w", cols[7], err)
		}
	}
	if n >= 9 {
		rec.ItemRGB = cols[8]
	}
	if n >= 12 {
		blockCount, err := strconv.Atoi(cols[9])
		if err != nil {
			return errcode.ReadBadData, fmt.Errorf("bed: bad blockCount %q: %w", cols[9], err)
		}
		sizes := strings.Split(strings.TrimRight(cols[10], ","), ",")
		starts := strings.Split(strings.TrimRight(cols[11], ","), ",")
		if len(sizes) != blockCount || len(starts) != blockCount {
			return errcode.ReadMismatch, fmt.Errorf("bed: blockCount %d does not match %d sizes / %d starts", blockCount, len(sizes), len(starts))
		}
		if cap(rec.Blocks) < blockCount {
			rec.Blocks = make([]Block, blockCount)
		} else {
			rec.Blocks = rec.Blocks[:blockCount]
		}
		for i := 0; i < blockCount; i++ {
			size, err := strconv.Atoi(sizes[i])
			if err != nil {
				return errcode.ReadBadData, fmt.Errorf("bed: bad block size %q: %w", sizes[i], err)
			}
			bstart, err := strconv.Atoi(starts[i])
			if err != nil {
				return errcode.ReadBadData, fmt.Errorf("bed: bad block start %q: %w", starts[i], err)
			}
			rec.Blocks[i] = Block{Size: size, Start: bstart}
		}
	}
	return errcode.ReadOK, nil
}

// Writer writes BED features, reproducing each record's stored column
// arity exactly.
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

// Write emits rec as exactly rec.Fields tab-separated columns, terminated
// by a single newline.
func (wr *Writer) Write(rec *Feature) (errcode.WriteCode, error) {
	cols := make([]string, 0, rec.Fields)
	cols = append(cols, rec.Chrom, strconv.Itoa(rec.ChromStart), strconv.Itoa(rec.ChromEnd))
	if rec.Fields >= 4 {
		cols = append(cols, rec.Name)
	}
	if rec.Fields >= 5 {
		cols = append(cols, strconv.Itoa(rec.Score))
	}
	if rec.Fields >= 6 {
		cols = append(cols, string(rec.Strand))
	}
	if rec.Fields >= 8 {
		cols = append(cols, strconv.Itoa(rec.ThickStart), strconv.Itoa(rec.ThickEnd))
	}
	if rec.Fields >= 9 {
		cols = append(cols, rec.ItemRGB)
	}
	if rec.Fields >= 12 {
		sizes := make([]string, len(rec.Blocks))
		starts := make([]string, len(rec.Blocks))
		for i, b := range rec.Blocks {
			sizes[i] = strconv.Itoa(b.Size)
			starts[i] = strconv.Itoa(b.Start)
		}
		cols = append(cols, strconv.Itoa(len(rec.Blocks)), strings.Join(sizes, ",")+",", strings.Join(starts, ",")+",")
	}
	if _, err := io.WriteString(wr.w, strings.Join(cols, "\t")+"\n"); err != nil {
		return errcode.WriteFailure, err
	}
	return errcode.WriteOK, nil
}
