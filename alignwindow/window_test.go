package alignwindow

import (
	"testing"

	"github.com/grailbio/peakclassifier/encoding/sam"
	"github.com/grailbio/peakclassifier/errcode"
	"github.com/stretchr/testify/require"
)

func mkAln(rname string, pos, flag, mapq int) *sam.Alignment {
	a := &sam.Alignment{RName: rname, Pos: pos, Flag: flag, MapQ: mapq}
	a.Seq.AppendString("ACGT")
	a.Qual.AppendString("IIII")
	a.Cigar.AppendString("4M")
	return a
}

func TestAddAcceptsNonDecreasingSequence(t *testing.T) {
	w := New(0, 4, 64)
	_, err := w.Add(mkAln("chr1", 100, 0, 30))
	require.NoError(t, err)
	_, err = w.Add(mkAln("chr1", 150, 0, 30))
	require.NoError(t, err)
	_, err = w.Add(mkAln("chr2", 1, 0, 30))
	require.NoError(t, err)
	require.Equal(t, 3, w.Len())
	require.Equal(t, 3, w.Counters.Total)
}

func TestAddRejectsOutOfOrderPosition(t *testing.T) {
	w := New(0, 4, 64)
	_, err := w.Add(mkAln("chr1", 200, 0, 30))
	require.NoError(t, err)
	_, err = w.Add(mkAln("chr1", 150, 0, 30))
	require.Error(t, err)
	var fatal *errcode.Fatal
	require.ErrorAs(t, err, &fatal)
	require.Equal(t, errcode.ExitData, fatal.Code)
}

func TestAddRejectsOutOfOrderChromosome(t *testing.T) {
	w := New(0, 4, 64)
	_, err := w.Add(mkAln("chr2", 1, 0, 30))
	require.NoError(t, err)
	_, err = w.Add(mkAln("chr1", 1, 0, 30))
	require.Error(t, err)
}

func TestAddGrowsThenFailsAtHardCap(t *testing.T) {
	w := New(0, 2, 4)
	for i := 0; i < 4; i++ {
		code, err := w.Add(mkAln("chr1", i+1, 0, 30))
		require.NoError(t, err)
		require.Equal(t, errcode.WindowOK, code)
	}
	require.Equal(t, 4, w.Len())
	code, err := w.Add(mkAln("chr1", 5, 0, 30))
	require.Error(t, err)
	require.Equal(t, errcode.WindowAddFailed, code)
}

func TestAlignmentOKFiltersUnmappedAndLowMapQ(t *testing.T) {
	w := New(20, 4, 64)
	require.True(t, w.AlignmentOK(mkAln("chr1", 1, 0, 30)))

	unmapped := mkAln("chr1", 1, flagUnmapped, 30)
	require.False(t, w.AlignmentOK(unmapped))
	require.Equal(t, 1, w.Counters.Discarded)
	require.Equal(t, 1, w.Counters.Unmapped)

	lowQ := mkAln("chr1", 1, 0, 5)
	require.False(t, w.AlignmentOK(lowQ))
	require.Equal(t, 2, w.Counters.Discarded)
	require.Equal(t, 1, w.Counters.MapQLowCount)
	require.Equal(t, int64(35), w.Counters.MapQSum)
	require.Equal(t, 30, w.Counters.MapQHigh)
}

func TestShiftCompactsAndNullsFreedSlots(t *testing.T) {
	w := New(0, 4, 64)
	for i := 0; i < 3; i++ {
		_, err := w.Add(mkAln("chr1", i+1, 0, 30))
		require.NoError(t, err)
	}
	w.Shift(2)
	require.Equal(t, 1, w.Len())
	require.Equal(t, 3, w.At(0).Pos)
}

func TestFreeAlignmentNullsInPlace(t *testing.T) {
	w := New(0, 4, 64)
	_, err := w.Add(mkAln("chr1", 1, 0, 30))
	require.NoError(t, err)
	w.FreeAlignment(0)
	require.Nil(t, w.buf[0])
}

func TestAddDeepCopiesAlignment(t *testing.T) {
	w := New(0, 4, 64)
	src := mkAln("chr1", 1, 0, 30)
	_, err := w.Add(src)
	require.NoError(t, err)
	src.Seq.Reset()
	src.Seq.AppendString("TTTT")
	require.Equal(t, "ACGT", w.At(0).Seq.String())
}
