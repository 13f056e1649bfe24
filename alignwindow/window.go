// Package alignwindow implements a buffered alignment window: a growable
// queue of deep-copied SAM alignments guarded by a sort-order watermark,
// used to stream alignments against a GFF or VCF stream without holding
// an entire chromosome in memory at once. The watermark check follows the
// same fatal-on-violation pattern as a per-read distance bound check, and
// the quality gate applies unmapped-flag/MAPQ filtering before counting a
// read as usable.
package alignwindow

import (
	"fmt"

	"github.com/grailbio/peakclassifier/chromorder"
	"github.com/grailbio/peakclassifier/encoding/sam"
	"github.com/grailbio/peakclassifier/errcode"
)

// flagUnmapped is the SAM FLAG bit (0x4) marking a read unmapped.
const flagUnmapped = 0x4

// Counters tallies a window's lifetime activity: total, discarded,
// unmapped, and MAPQ low/high/sum per-stream counters.
type Counters struct {
	Total        int   // alignments successfully added
	Discarded    int   // alignments rejected by AlignmentOK
	Unmapped     int   // discards due to the unmapped flag
	MapQLowCount int   // discards due to MAPQ below the minimum
	MapQSum      int64 // sum of MAPQ over discarded alignments
	MapQHigh     int   // highest MAPQ seen among discarded alignments
}

// Window is a growable queue of owned *sam.Alignment pointers with a sort
// watermark. The zero value is not usable; construct with New.
type Window struct {
	buf     []*sam.Alignment
	n       int // number of live entries occupying buf[0:n]
	hardCap int
	minMapQ int

	haveWatermark bool
	lastChrom     string
	lastPos       int

	Counters Counters
}

// New returns an empty Window. initialCap is the starting backing-array
// size (0 picks a small default); hardCap bounds how large Add is allowed
// to grow it before reporting WindowAddFailed. minMapQ is the minimum
// mapping quality AlignmentOK requires.
func New(minMapQ, initialCap, hardCap int) *Window {
	if initialCap <= 0 {
		initialCap = 16
	}
	if hardCap <= 0 || hardCap < initialCap {
		hardCap = initialCap
	}
	return &Window{
		buf:     make([]*sam.Alignment, 0, initialCap),
		hardCap: hardCap,
		minMapQ: minMapQ,
	}
}

// Len returns the number of alignments currently held.
func (w *Window) Len() int { return w.n }

// At returns the i'th held alignment (0 is the oldest). The returned
// pointer MUST NOT be retained past the next Shift or FreeAlignment call.
func (w *Window) At(i int) *sam.Alignment { return w.buf[i] }

// AlignmentOK reports whether aln passes the quality gate: mapped, and
// MAPQ at least minMapQ. Rejections update the discarded-score summary in
// Counters.
func (w *Window) AlignmentOK(aln *sam.Alignment) bool {
	if aln.Flag&flagUnmapped != 0 {
		w.Counters.Discarded++
		w.Counters.Unmapped++
		w.recordDiscardedMapQ(aln.MapQ)
		return false
	}
	if aln.MapQ < w.minMapQ {
		w.Counters.Discarded++
		w.Counters.MapQLowCount++
		w.recordDiscardedMapQ(aln.MapQ)
		return false
	}
	return true
}

func (w *Window) recordDiscardedMapQ(mapq int) {
	w.Counters.MapQSum += int64(mapq)
	if mapq > w.Counters.MapQHigh {
		w.Counters.MapQHigh = mapq
	}
}

// Add verifies aln's position against the watermark (the highest
// (chrom, pos) accepted so far), deep-copies it into the next slot, and
// advances the watermark. A sort-order violation is fatal; hitting the
// hard cap is reported, not fatal, so the caller can Shift and retry.
func (w *Window) Add(aln *sam.Alignment) (errcode.WindowCode, error) {
	if w.haveWatermark {
		c, err := chromorder.Compare(aln.RName, w.lastChrom)
		if err != nil {
			return errcode.WindowOK, errcode.DataError(err)
		}
		if c < 0 || (c == 0 && aln.Pos < w.lastPos) {
			return errcode.WindowOK, errcode.DataError(fmt.Errorf(
				"alignwindow: out-of-order alignment %s:%d follows watermark %s:%d",
				aln.RName, aln.Pos, w.lastChrom, w.lastPos))
		}
	}

	if w.n >= cap(w.buf) {
		if cap(w.buf) >= w.hardCap {
			return errcode.WindowAddFailed, fmt.Errorf("alignwindow: hard cap of %d alignments reached", w.hardCap)
		}
		newCap := cap(w.buf) * 2
		if newCap == 0 {
			newCap = 16
		}
		if newCap > w.hardCap {
			newCap = w.hardCap
		}
		grown := make([]*sam.Alignment, w.n, newCap)
		copy(grown, w.buf)
		w.buf = grown
	}

	dup := &sam.Alignment{}
	dup.Init()
	dup.QName = aln.QName
	dup.Flag = aln.Flag
	dup.RName = aln.RName
	dup.Pos = aln.Pos
	dup.MapQ = aln.MapQ
	dup.Cigar.AppendString(aln.Cigar.String())
	dup.RNext = aln.RNext
	dup.PNext = aln.PNext
	dup.TLen = aln.TLen
	dup.Seq.AppendString(aln.Seq.String())
	dup.Qual.AppendString(aln.Qual.String())

	w.buf = w.buf[:w.n+1]
	w.buf[w.n] = dup
	w.n++

	w.haveWatermark = true
	w.lastChrom = aln.RName
	w.lastPos = aln.Pos

	w.Counters.Total++
	return errcode.WindowOK, nil
}

// Shift frees the first n slots and compacts the remaining tail forward.
// Pointers previously returned by At for indices below n must not be
// dereferenced afterward.
func (w *Window) Shift(n int) {
	if n <= 0 {
		return
	}
	if n > w.n {
		n = w.n
	}
	for i := 0; i < n; i++ {
		w.buf[i].Free()
		w.buf[i] = nil
	}
	copy(w.buf, w.buf[n:w.n])
	for i := w.n - n; i < w.n; i++ {
		w.buf[i] = nil
	}
	w.buf = w.buf[:w.n-n]
	w.n -= n
}

// FreeAlignment releases the i'th slot in place, nulling it without
// compacting the rest of the queue.
func (w *Window) FreeAlignment(i int) {
	if w.buf[i] == nil {
		return
	}
	w.buf[i].Free()
	w.buf[i] = nil
}
