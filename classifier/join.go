package classifier

import (
	"github.com/grailbio/peakclassifier/chromorder"
	"github.com/grailbio/peakclassifier/interval"
)

// Join is an inline streaming merge join rather than shelling out to an
// external intersection tool; this is acceptable since both the peak and
// augmented streams are sorted. It returns, for each peak (same index as
// the peaks argument), the
// pairings with overlapping augmented features in the order those
// features appear in the augmented stream.
func Join(peaks []Peak, augmented []AugmentedFeature) [][]Pairing {
	result := make([][]Pairing, len(peaks))
	lo := 0
	for i, p := range peaks {
		for lo < len(augmented) {
			c, _ := chromorder.Compare(augmented[lo].Chrom, p.Chrom)
			if c < 0 || (c == 0 && augmented[lo].End0 <= p.Start0) {
				lo++
				continue
			}
			break
		}
		var pairs []Pairing
		for j := lo; j < len(augmented); j++ {
			f := augmented[j]
			c, _ := chromorder.Compare(f.Chrom, p.Chrom)
			if c > 0 {
				break
			}
			if c < 0 {
				continue
			}
			if f.Start0 >= p.End0 {
				break
			}
			ov := interval.Compute(p.Start1(), p.End1(), f.Start1(), f.End1())
			if ov.Overlaps() {
				pairs = append(pairs, Pairing{Peak: p, Feature: f, OverlapLen: ov.Length})
			}
		}
		result[i] = pairs
	}
	return result
}
