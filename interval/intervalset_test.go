package interval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntervalSetMergesOverlappingAndAbutting(t *testing.T) {
	s := NewIntervalSet()
	require.NoError(t, s.Add("chr1", 10, 20))
	require.NoError(t, s.Add("chr1", 15, 25)) // overlaps prior span
	require.NoError(t, s.Add("chr1", 25, 30)) // abuts prior span (half-open)
	require.NoError(t, s.Add("chr1", 100, 200))
	s.Finish()

	require.Equal(t, 2, s.Len("chr1"))
	require.True(t, s.Contains("chr1", 10))
	require.True(t, s.Contains("chr1", 24))
	require.True(t, s.Contains("chr1", 29))
	require.False(t, s.Contains("chr1", 30))
	require.True(t, s.Contains("chr1", 150))
	require.False(t, s.Contains("chr1", 200))
	require.False(t, s.Contains("chr1", 9))
}

func TestIntervalSetPerChromosomeIsolation(t *testing.T) {
	s := NewIntervalSet()
	require.NoError(t, s.Add("chr1", 10, 20))
	require.NoError(t, s.Add("chr2", 10, 20))
	s.Finish()

	require.True(t, s.Contains("chr1", 15))
	require.True(t, s.Contains("chr2", 15))
	require.False(t, s.Contains("chr3", 15))
}

func TestIntervalSetRejectsUnsortedStartWithinChromosome(t *testing.T) {
	s := NewIntervalSet()
	require.NoError(t, s.Add("chr1", 100, 200))
	err := s.Add("chr1", 50, 60)
	require.Error(t, err)
}

func TestIntervalSetRejectsReappearingChromosome(t *testing.T) {
	s := NewIntervalSet()
	require.NoError(t, s.Add("chr1", 1, 10))
	require.NoError(t, s.Add("chr2", 1, 10))
	err := s.Add("chr1", 20, 30)
	require.Error(t, err)
}

func TestIntervalSetRejectsEmptyInterval(t *testing.T) {
	s := NewIntervalSet()
	require.Error(t, s.Add("chr1", 10, 10))
	require.Error(t, s.Add("chr1", 20, 10))
}

func TestIntervalSetEmptyChromosomeNeverContains(t *testing.T) {
	s := NewIntervalSet()
	s.Finish()
	require.False(t, s.Contains("chr1", 0))
}

func TestIntervalSetFinishIsIdempotent(t *testing.T) {
	s := NewIntervalSet()
	require.NoError(t, s.Add("chr1", 1, 10))
	s.Finish()
	s.Finish()
	require.True(t, s.Contains("chr1", 5))
}
