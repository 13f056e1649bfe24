package fasta

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/peakclassifier/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRoundTripSingleLine(t *testing.T) {
	const data = ">chr1\nACGTACGT\n"
	r := NewReader(strings.NewReader(data))
	var rec Record
	code, err := r.Read(&rec)
	require.NoError(t, err)
	require.Equal(t, errcode.ReadOK, code)
	assert.Equal(t, ">chr1", rec.Description)
	assert.Equal(t, "ACGTACGT", rec.Sequence.String())

	var buf bytes.Buffer
	w := NewWriter(&buf, WrapUnlimited)
	_, err = w.Write(&rec)
	require.NoError(t, err)
	assert.Equal(t, data, buf.String())
}

func TestStreamMultiLineSequenceAccumulates(t *testing.T) {
	const data = ">chr7 a comment\nACGTAC\nGAGGAC\nGCG\n>chr8\nACGT\n"
	r := NewReader(strings.NewReader(data))

	var rec Record
	code, err := r.Read(&rec)
	require.NoError(t, err)
	require.Equal(t, errcode.ReadOK, code)
	assert.Equal(t, ">chr7 a comment", rec.Description)
	assert.Equal(t, "ACGTACGAGGACGCG", rec.Sequence.String())

	code, err = r.Read(&rec)
	require.NoError(t, err)
	require.Equal(t, errcode.ReadOK, code)
	assert.Equal(t, ">chr8", rec.Description)
	assert.Equal(t, "ACGT", rec.Sequence.String())

	code, err = r.Read(&rec)
	require.NoError(t, err)
	assert.Equal(t, errcode.ReadEOF, code)
}

func TestStreamReadMismatch(t *testing.T) {
	r := NewReader(strings.NewReader("ACGT\n>chr1\nACGT\n"))
	var rec Record
	code, _ := r.Read(&rec)
	assert.Equal(t, errcode.ReadMismatch, code)
}

func TestStreamWriterWrapWidth(t *testing.T) {
	var rec Record
	rec.Description = ">seq"
	rec.Sequence.AppendString("ACGTACGTAC")

	var buf bytes.Buffer
	w := NewWriter(&buf, 4)
	_, err := w.Write(&rec)
	require.NoError(t, err)
	assert.Equal(t, ">seq\nACGT\nACGT\nAC\n", buf.String())
}

func TestStreamBufferReuseAcrossRecords(t *testing.T) {
	const data = ">a\nAAAAAAAAAA\n>b\nCC\n"
	r := NewReader(strings.NewReader(data))
	var rec Record
	_, err := r.Read(&rec)
	require.NoError(t, err)
	firstCap := cap(rec.Sequence.Bytes())

	_, err = r.Read(&rec)
	require.NoError(t, err)
	assert.Equal(t, "CC", rec.Sequence.String())
	assert.GreaterOrEqual(t, firstCap, rec.Sequence.Len())
}
