package classifier

import "sort"

type geneSpan struct {
	Start0, End0 int
	Name         string
}

// Annotate attaches a classification token to every peak. A peak with
// at least one pairing gets one row per
// pairing, classified by that feature's type (exon, intron,
// upstream-<u>, ...); a peak with none gets a single synthetic row,
// classified "intergenic" with the distance to the nearest gene, or
// "none" when that distance exceeds cfg.MaxIntergenicDistance (a zero
// MaxIntergenicDistance means unbounded).
// augmented must be sorted by (chrom, start), the invariant Synthesize's
// return value already satisfies; nearestGene's binary search depends on
// each chromosome's filtered gene spans inheriting that order.
func Annotate(peaks []Peak, byPeak [][]Pairing, augmented []AugmentedFeature, cfg Config) []Row {
	genesByChrom := make(map[string][]geneSpan)
	for _, f := range augmented {
		if f.Type != "gene" {
			continue
		}
		genesByChrom[f.Chrom] = append(genesByChrom[f.Chrom], geneSpan{Start0: f.Start0, End0: f.End0, Name: f.GeneName})
	}

	var rows []Row
	for i, p := range peaks {
		pairs := byPeak[i]
		if len(pairs) > 0 {
			for _, pr := range pairs {
				rows = append(rows, Row{
					Peak:           p,
					FeatureType:    pr.Feature.Type,
					FeatureName:    pr.Feature.GeneName,
					OverlapLen:     pr.OverlapLen,
					Classification: pr.Feature.Type,
				})
			}
			continue
		}

		dist, name, found := nearestGene(genesByChrom[p.Chrom], p)
		switch {
		case !found || (cfg.MaxIntergenicDistance > 0 && dist > cfg.MaxIntergenicDistance):
			rows = append(rows, Row{Peak: p, Classification: "none", Distance: dist})
		default:
			rows = append(rows, Row{Peak: p, Classification: "intergenic", FeatureName: name, Distance: dist})
		}
	}
	return rows
}

// nearestGene finds the closest gene to p among a chromosome's gene
// spans (sorted by start), assuming p is known not to overlap any of
// them. It checks only the spans immediately before and after p's
// position, since spans is sorted and non-overlapping with p.
func nearestGene(spans []geneSpan, p Peak) (dist int, name string, found bool) {
	if len(spans) == 0 {
		return 0, "", false
	}
	idx := sort.Search(len(spans), func(i int) bool { return spans[i].Start0 >= p.End0 })

	best := -1
	bestDist := 0
	if idx < len(spans) {
		best = idx
		bestDist = spans[idx].Start0 - p.End0
	}
	if idx > 0 {
		prev := spans[idx-1]
		d := p.Start0 - prev.End0
		if d < 0 {
			d = 0
		}
		if best == -1 || d < bestDist {
			best = idx - 1
			bestDist = d
		}
	}
	if best == -1 {
		return 0, "", false
	}
	return bestDist, spans[best].Name, true
}
