package interval

import (
	"fmt"
	"math"
	"sort"

	"github.com/grailbio/peakclassifier/errcode"
)

// PosType is the coordinate type used throughout an IntervalSet: a
// fixed-width signed integer rather than int, since merged spans are
// serialized nowhere else and genomic coordinates comfortably fit.
type PosType = int32

// PosTypeMax is the largest representable PosType.
const PosTypeMax PosType = math.MaxInt32

// span is one disjoint, merged half-open interval [Start, End) on a single
// chromosome.
type span struct {
	Start PosType
	End   PosType
}

// IntervalSet accumulates 0-based half-open intervals from a single sorted
// pass (grouped by chromosome, non-decreasing start within a chromosome)
// and merges overlapping or abutting intervals as they arrive in one pass.
// Once Finish is called, Contains answers containment queries by binary
// search.
type IntervalSet struct {
	byChrom map[string][]span

	building   string
	cur        []span
	seenChroms map[string]bool
	lastStart  PosType
	started    bool
	finished   bool
}

// NewIntervalSet returns an empty IntervalSet ready for Add.
func NewIntervalSet() *IntervalSet {
	return &IntervalSet{
		byChrom:    make(map[string][]span),
		seenChroms: make(map[string]bool),
	}
}

// Add inserts the half-open interval [start0, end0) on chrom. Input must
// arrive grouped by chromosome with non-decreasing start within a group;
// violating that order is a data error, not a panic, since it always
// traces back to an unsorted input file rather than a programming bug.
func (s *IntervalSet) Add(chrom string, start0, end0 int) error {
	if s.finished {
		return fmt.Errorf("intervalset: Add called after Finish")
	}
	if end0 <= start0 {
		return fmt.Errorf("intervalset: empty or negative interval [%d, %d)", start0, end0)
	}
	start, end := PosType(start0), PosType(end0)

	if chrom != s.building {
		if s.seenChroms[chrom] {
			return errcode.DataError(fmt.Errorf("intervalset: chromosome %q reappeared after another chromosome was seen", chrom))
		}
		s.flush()
		s.building = chrom
		s.seenChroms[chrom] = true
		s.started = false
	}
	if s.started && start < s.lastStart {
		return errcode.DataError(fmt.Errorf("intervalset: unsorted input on %q: start %d follows start %d", chrom, start0, s.lastStart))
	}
	s.lastStart = start
	s.started = true

	if n := len(s.cur); n > 0 && start <= s.cur[n-1].End {
		if end > s.cur[n-1].End {
			s.cur[n-1].End = end
		}
		return nil
	}
	s.cur = append(s.cur, span{Start: start, End: end})
	return nil
}

// flush moves the current chromosome's merged spans into byChrom.
func (s *IntervalSet) flush() {
	if s.building == "" && len(s.cur) == 0 {
		return
	}
	if len(s.cur) > 0 {
		s.byChrom[s.building] = s.cur
	}
	s.cur = nil
}

// Finish closes the set to further Add calls and makes Contains usable. It
// is idempotent.
func (s *IntervalSet) Finish() {
	if s.finished {
		return
	}
	s.flush()
	s.finished = true
}

// Contains reports whether pos0 (0-based) falls inside any interval added
// for chrom. It is a binary search over chrom's merged, sorted spans.
func (s *IntervalSet) Contains(chrom string, pos0 int) bool {
	spans := s.byChrom[chrom]
	if len(spans) == 0 {
		return false
	}
	pos := PosType(pos0)
	i := sort.Search(len(spans), func(i int) bool { return spans[i].Start > pos })
	if i == 0 {
		return false
	}
	return pos < spans[i-1].End
}

// Len returns the number of merged spans stored for chrom.
func (s *IntervalSet) Len(chrom string) int { return len(s.byChrom[chrom]) }
