package classifier

import (
	"fmt"
	"sort"

	"github.com/biogo/store/step"

	"github.com/grailbio/peakclassifier/chromorder"
	"github.com/grailbio/peakclassifier/encoding/gff"
)

type geneInfo struct {
	ID, Name string
	Chrom    string
	Start0   int
	End0     int
	Strand   byte
}

func isGeneType(t string) bool { return t == "gene" }
func isTranscriptType(t string) bool {
	return t == "mRNA" || t == "transcript"
}
func isSubfeatureType(t string) bool {
	switch t {
	case "exon", "CDS", "UTR", "five_prime_UTR", "three_prime_UTR":
		return true
	default:
		return false
	}
}

// Synthesize walks a fully-read GFF3 gene hierarchy and returns the
// augmented BED-like stream — filter-admitted raw features, synthesized
// upstream windows, and synthesized introns — sorted by (chrom, start),
// longest-first on a start tie. Join and Annotate keep this order for the
// pairings of each peak.
func Synthesize(features []*gff.Feature, cfg Config) []AugmentedFeature {
	cfg = cfg.normalize()

	var out []AugmentedFeature
	genes := make(map[string]*geneInfo)
	transcriptGene := make(map[string]string)
	subfeatures := make(map[string][]*gff.Feature)

	for _, f := range features {
		if f.Sentinel {
			continue
		}
		start0, end0 := f.Start-1, f.End

		if cfg.typeAllowed(f.Type) {
			out = append(out, AugmentedFeature{
				Chrom: f.SeqID, Start0: start0, End0: end0,
				Type: f.Type, GeneName: f.Name, SourceGene: f.ID,
			})
		}

		switch {
		case isGeneType(f.Type):
			g := &geneInfo{ID: f.ID, Name: f.Name, Chrom: f.SeqID, Start0: start0, End0: end0, Strand: f.Strand}
			genes[f.ID] = g
			out = append(out, upstreamWindows(g, cfg.UpstreamOffsets)...)
		case isTranscriptType(f.Type):
			transcriptGene[f.ID] = f.Parent
		case isSubfeatureType(f.Type):
			if f.Parent != "" {
				subfeatures[f.Parent] = append(subfeatures[f.Parent], f.Dup())
			}
		}
	}

	transcriptIDs := make([]string, 0, len(subfeatures))
	for id := range subfeatures {
		transcriptIDs = append(transcriptIDs, id)
	}
	sort.Strings(transcriptIDs)
	for _, transcriptID := range transcriptIDs {
		geneID := transcriptGene[transcriptID]
		g := genes[geneID]
		if g == nil {
			continue
		}
		out = append(out, introns(g, subfeatures[transcriptID])...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		c, _ := chromorder.Compare(a.Chrom, b.Chrom)
		if c != 0 {
			return c < 0
		}
		if a.Start0 != b.Start0 {
			return a.Start0 < b.Start0
		}
		return a.End0 > b.End0
	})
	return out
}

// upstreamWindows synthesizes the "potential promoter" intervals: for
// strand '+', the window immediately precedes gene.start; for strand '-',
// it immediately follows gene.end.
func upstreamWindows(g *geneInfo, offsets []int) []AugmentedFeature {
	var out []AugmentedFeature
	for _, u := range offsets {
		if u <= 0 {
			continue
		}
		var start0, end0 int
		if g.Strand == gff.StrandMinus {
			start0, end0 = g.End0, g.End0+u
		} else {
			start0, end0 = g.Start0-u, g.Start0
		}
		if start0 < 0 {
			start0 = 0
		}
		if end0 <= start0 {
			continue
		}
		out = append(out, AugmentedFeature{
			Chrom: g.Chrom, Start0: start0, End0: end0,
			Type: fmt.Sprintf("upstream-%d", u), GeneName: g.Name, SourceGene: g.ID,
		})
	}
	return out
}

// covered is a step.Equaler marking whether a transcript coordinate falls
// inside some exonic subfeature, used by introns to merge overlapping
// CDS/UTR/exon ranges the way step.Vector merges any run-length-encoded
// coverage track.
type covered bool

func (c covered) Equal(e step.Equaler) bool { return c == e.(covered) }

// introns synthesizes the gap intervals between a transcript's disjoint
// exonic blocks. Subfeature ranges (exon/CDS/UTR, which
// overlap their enclosing exon) are painted onto a step.Vector coverage
// track; the uncovered runs strictly between the first and last covered
// run are the transcript's introns.
func introns(g *geneInfo, subs []*gff.Feature) []AugmentedFeature {
	if len(subs) == 0 {
		return nil
	}

	v, err := step.New(0, 1, covered(false))
	if err != nil {
		return nil
	}
	v.Relaxed = true
	for _, s := range subs {
		start0, end0 := s.Start-1, s.End
		if end0 <= start0 {
			continue
		}
		if err := v.ApplyRange(start0, end0, func(step.Equaler) step.Equaler { return covered(true) }); err != nil {
			return nil
		}
	}

	var out []AugmentedFeature
	haveBlock := false
	blockEnd := 0
	v.Do(func(start, end int, e step.Equaler) {
		if !bool(e.(covered)) {
			return
		}
		if haveBlock && start > blockEnd {
			out = append(out, AugmentedFeature{
				Chrom: g.Chrom, Start0: blockEnd, End0: start,
				Type: "intron", GeneName: g.Name, SourceGene: g.ID,
			})
		}
		blockEnd = end
		haveBlock = true
	})
	return out
}
