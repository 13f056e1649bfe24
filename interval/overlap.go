package interval

// Overlap is the result of Compute: the lengths of the two input intervals
// plus the overlap region, all in 1-based inclusive coordinates.
type Overlap struct {
	Len1   int
	Len2   int
	Start  int // max(a_start, b_start)
	End    int // min(a_end, b_end)
	Length int // End - Start + 1; non-positive means no overlap
}

// Compute returns the overlap between [aStart, aEnd] and [bStart, bEnd],
// both in 1-based inclusive coordinates. Callers holding BED's 0-based
// half-open coordinates must convert first (bedStart+1, bedEnd) before
// calling.
func Compute(aStart, aEnd, bStart, bEnd int) Overlap {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	return Overlap{
		Len1:   aEnd - aStart + 1,
		Len2:   bEnd - bStart + 1,
		Start:  start,
		End:    end,
		Length: end - start + 1,
	}
}

// Overlaps reports whether the two intervals truly overlap (Length > 0).
func (o Overlap) Overlaps() bool { return o.Length > 0 }
