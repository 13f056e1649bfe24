package sam

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/peakclassifier/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	const line = "read1\t0\tchr1\t100\t60\t8M\t*\t0\t0\tACGTACGT\tIIIIIIII\n"
	r := NewReader(strings.NewReader(line))
	var rec Alignment
	code, err := r.Read(&rec)
	require.NoError(t, err)
	require.Equal(t, errcode.ReadOK, code)
	assert.Equal(t, "read1", rec.QName)
	assert.Equal(t, 0, rec.Flag)
	assert.Equal(t, "chr1", rec.RName)
	assert.Equal(t, 100, rec.Pos)
	assert.Equal(t, 60, rec.MapQ)
	assert.Equal(t, "8M", rec.Cigar.String())
	assert.Equal(t, "ACGTACGT", rec.Seq.String())
	assert.Equal(t, 107, rec.End())

	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err = w.Write(&rec)
	require.NoError(t, err)
	assert.Equal(t, line, buf.String())
}

func Test12thColumnDiscarded(t *testing.T) {
	const line = "read1\t0\tchr1\t100\t60\t8M\t*\t0\t0\tACGTACGT\tIIIIIIII\tNM:i:0\n"
	r := NewReader(strings.NewReader(line))
	var rec Alignment
	code, err := r.Read(&rec)
	require.NoError(t, err)
	require.Equal(t, errcode.ReadOK, code)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err = w.Write(&rec)
	require.NoError(t, err)
	assert.Equal(t, "read1\t0\tchr1\t100\t60\t8M\t*\t0\t0\tACGTACGT\tIIIIIIII\n", buf.String())
}

func TestReadEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	var rec Alignment
	code, err := r.Read(&rec)
	require.NoError(t, err)
	assert.Equal(t, errcode.ReadEOF, code)
}

func TestReadTruncated(t *testing.T) {
	r := NewReader(strings.NewReader("read1\t0\tchr1\n"))
	var rec Alignment
	code, _ := r.Read(&rec)
	assert.Equal(t, errcode.ReadTruncated, code)
}

func TestHeaderSkip(t *testing.T) {
	data := "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:1000\nread1\t0\tchr1\t100\t60\t8M\t*\t0\t0\tACGT\tIIII\n"
	r := NewReader(strings.NewReader(data))
	header, err := r.SkipHeader()
	require.NoError(t, err)
	assert.Equal(t, "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:1000\n", string(header))

	var rec Alignment
	code, err := r.Read(&rec)
	require.NoError(t, err)
	require.Equal(t, errcode.ReadOK, code)
	assert.Equal(t, "read1", rec.QName)
}

func TestBufferReuseAcrossReads(t *testing.T) {
	data := "r1\t0\tchr1\t1\t0\t10M\t*\t0\t0\tAAAAAAAAAA\tIIIIIIIIII\nr2\t0\tchr1\t5\t0\t2M\t*\t0\t0\tCC\tJJ\n"
	r := NewReader(strings.NewReader(data))
	var rec Alignment
	_, err := r.Read(&rec)
	require.NoError(t, err)
	firstCap := cap(rec.Seq.Bytes())

	_, err = r.Read(&rec)
	require.NoError(t, err)
	assert.Equal(t, "CC", rec.Seq.String())
	assert.GreaterOrEqual(t, firstCap, rec.Seq.Len())
}
