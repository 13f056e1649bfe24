package gff

import (
	"fmt"
	"io"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/peakclassifier/errcode"
)

// growChunk is the fixed entry-count growth increment Index.Add uses
// when its backing array is full.
const growChunk = 65536

type indexEntry struct {
	offset int64
	start  int
	end    int
	seqID  string
}

// Index is a GFF positional index: a slice of (file-offset, start, end,
// owned seqid) entries plus a seqid bucket hash, keyed by
// github.com/dgryski/go-farm the way the rest of this corpus reaches for a
// non-cryptographic hash for an in-memory bucket key, that lets SeekReverse
// walk one chromosome's entries in stream order instead of scanning every
// entry the index holds.
type Index struct {
	entries []indexEntry
	buckets map[uint64][]int32
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{buckets: make(map[uint64][]int32)}
}

// Len reports the number of indexed entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Add appends one entry, growing the backing array by growChunk entries at
// a time. An allocation failure (out-of-memory panic from the runtime) is
// recovered and reported as IndexMallocFailed rather than crashing the
// process.
func (idx *Index) Add(offset int64, seqID string, start, end int) (code errcode.IndexCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			code, err = errcode.IndexMallocFailed, fmt.Errorf("gff: index allocation failed: %v", r)
		}
	}()
	if len(idx.entries) == cap(idx.entries) {
		grown := make([]indexEntry, len(idx.entries), cap(idx.entries)+growChunk)
		copy(grown, idx.entries)
		idx.entries = grown
	}
	i := int32(len(idx.entries))
	idx.entries = append(idx.entries, indexEntry{offset: offset, start: start, end: end, seqID: seqID})
	h := farm.Hash64([]byte(seqID))
	idx.buckets[h] = append(idx.buckets[h], i)
	return errcode.IndexOK, nil
}

// SeekReverse locates the indexed entry matching (seqID, start), then steps
// backward within that chromosome's entries at most k entries or until an
// entry's end is less than start-maxNT, whichever comes first, and
// repositions stream to that entry's file offset. A maxNT of 0 disables the
// distance bound. found is false if no entry matches (seqID, start).
//
// The backward walk stays within the seqID's own bucket: bounding the
// distance by maxNT is only meaningful comparing positions on the same
// chromosome, and the bucket preserves each chromosome's subsequence in
// the order Add saw it.
func (idx *Index) SeekReverse(stream io.Seeker, seqID string, start int, k int, maxNT int) (found bool, err error) {
	h := farm.Hash64([]byte(seqID))
	bucket := idx.buckets[h]
	pos := -1
	for i, ei := range bucket {
		e := idx.entries[ei]
		if e.seqID == seqID && e.start == start {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false, nil
	}

	target := pos
	steps := 0
	for target > 0 && steps < k {
		prev := idx.entries[bucket[target-1]]
		if maxNT > 0 && prev.end < start-maxNT {
			break
		}
		target--
		steps++
	}

	if _, err := stream.Seek(idx.entries[bucket[target]].offset, io.SeekStart); err != nil {
		return true, err
	}
	return true, nil
}
