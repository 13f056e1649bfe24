package gff

import (
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/peakclassifier/errcode"
)

// Writer writes GFF3 features.
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

// Write emits rec as a single GFF3 line. A sentinel record is written as
// the bare "###" line; everything else is 9 tab-separated columns, with the
// score column reproduced from ScoreRaw so a round trip never reformats it.
func (wr *Writer) Write(rec *Feature) (errcode.WriteCode, error) {
	if rec.Sentinel {
		if _, err := io.WriteString(wr.w, "###\n"); err != nil {
			return errcode.WriteFailure, err
		}
		return errcode.WriteOK, nil
	}
	cols := []string{
		rec.SeqID,
		rec.Source,
		rec.Type,
		strconv.Itoa(rec.Start),
		strconv.Itoa(rec.End),
		rec.ScoreRaw,
		string(rec.Strand),
		string(rec.Phase),
		rec.Attributes,
	}
	if _, err := io.WriteString(wr.w, strings.Join(cols, "\t")+"\n"); err != nil {
		return errcode.WriteFailure, err
	}
	return errcode.WriteOK, nil
}
