package dsvio

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFieldFixed(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("chr1\t100\t200\n"))
	buf := make([]byte, 16)

	n, delim, ok := ReadField(r, buf, &TSVDelims)
	require.True(t, ok)
	assert.Equal(t, DelimTab, delim)
	assert.Equal(t, "chr1", string(buf[:n]))

	n, delim, ok = ReadField(r, buf, &TSVDelims)
	require.True(t, ok)
	assert.Equal(t, DelimTab, delim)
	assert.Equal(t, "100", string(buf[:n]))

	n, delim, ok = ReadField(r, buf, &TSVDelims)
	require.True(t, ok)
	assert.Equal(t, DelimNewline, delim)
	assert.Equal(t, "200", string(buf[:n]))

	_, delim, _ = ReadField(r, buf, &TSVDelims)
	assert.Equal(t, DelimEOF, delim)
}

func TestReadFieldOverflow(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("abcdefgh\tnext\n"))
	buf := make([]byte, 4)
	n, delim, ok := ReadField(r, buf, &TSVDelims)
	assert.False(t, ok, "overflow must be reported")
	assert.Equal(t, DelimTab, delim)
	assert.Equal(t, "abcd", string(buf[:n]))

	// The rest of the line is still readable afterwards.
	n, delim, ok = ReadField(r, buf, &TSVDelims)
	require.True(t, ok)
	assert.Equal(t, DelimNewline, delim)
	assert.Equal(t, "next", string(buf[:n]))
}

func TestReadFieldEmptyField(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\t\tx\n"))
	buf := make([]byte, 8)
	n, delim, ok := ReadField(r, buf, &TSVDelims)
	require.True(t, ok)
	assert.Equal(t, 0, n)
	assert.Equal(t, DelimTab, delim)
}

func TestReadGrowable(t *testing.T) {
	var f GrowableField
	longField := strings.Repeat("A", 500)
	r := bufio.NewReader(strings.NewReader(longField + "\tshort\n"))

	delim, err := f.ReadGrowable(r, &TSVDelims)
	require.NoError(t, err)
	assert.Equal(t, DelimTab, delim)
	assert.Equal(t, longField, f.String())

	delim, err = f.ReadGrowable(r, &TSVDelims)
	require.NoError(t, err)
	assert.Equal(t, DelimNewline, delim)
	assert.Equal(t, "short", f.String())
}

func TestReadGrowableReuseAcrossRecords(t *testing.T) {
	var f GrowableField
	r := bufio.NewReader(strings.NewReader("aaaaaaaaaa\tb\n"))
	_, err := f.ReadGrowable(r, &TSVDelims)
	require.NoError(t, err)
	firstCap := cap(f.buf)
	assert.Equal(t, "aaaaaaaaaa", f.String())

	_, err = f.ReadGrowable(r, &TSVDelims)
	require.NoError(t, err)
	assert.Equal(t, "b", f.String())
	// Capacity is reused (not reallocated smaller) across records.
	assert.Equal(t, firstCap, cap(f.buf))
}

func TestReadGrowableEOFAtStart(t *testing.T) {
	var f GrowableField
	r := bufio.NewReader(strings.NewReader(""))
	_, err := f.ReadGrowable(r, &TSVDelims)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBufferAccumulatesAcrossAppends(t *testing.T) {
	var b Buffer
	b.AppendString("ACGT")
	b.AppendByte('N')
	b.AppendString(strings.Repeat("T", 200))
	assert.Equal(t, "ACGTN"+strings.Repeat("T", 200), b.String())
	assert.Equal(t, 205, b.Len())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.String())
	b.AppendString("short")
	assert.Equal(t, "short", b.String())
}

func TestSkipFieldAndRestOfLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("a\tb\tc\nnextline\n"))
	n, delim := SkipField(r, &TSVDelims)
	assert.Equal(t, 1, n)
	assert.Equal(t, DelimTab, delim)

	require.NoError(t, SkipRestOfLine(r))
	rest, _ := r.ReadString('\n')
	assert.Equal(t, "nextline\n", rest)
}
