package interval

import "github.com/grailbio/peakclassifier/chromorder"

// Positioned is any record with a chromosome and a 1-based inclusive
// extent. bed.Feature, gff.Feature, and sam.Alignment all implement it
// (a BED feature's Start1 adds 1 to its 0-based ChromStart; a SAM
// alignment's End1 is Pos + seq_len - 1).
type Positioned interface {
	ChromName() string
	Start1() int
	End1() int
}

// Compare is a heterogeneous comparator: compare chromosomes first via
// chromorder.Compare, then, on a chromosome tie,
// compare the two 1-based inclusive ranges. It returns negative if a ends
// before b starts, positive if a starts after b ends, and zero if the
// ranges overlap — the single predicate every sorted-stream merge in this
// module is built on.
func Compare(a, b Positioned) (int, error) {
	c, err := chromorder.Compare(a.ChromName(), b.ChromName())
	if err != nil {
		return 0, err
	}
	if c != 0 {
		return c, nil
	}
	switch {
	case a.End1() < b.Start1():
		return -1, nil
	case a.Start1() > b.End1():
		return 1, nil
	default:
		return 0, nil
	}
}
