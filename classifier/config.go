// Package classifier implements the peak classifier pipeline: synthesize
// an augmented feature stream from a GFF3 gene hierarchy (Stage A), join
// it against a sorted BED peak stream (Stage B), and annotate each peak
// with a classification token (Stage C). The three stages are plain
// functions over slices; the join is an inline streaming merge rather
// than shelling out to an external intersection tool, since both inputs
// are already sorted.
package classifier

import "sort"

// Config holds the pipeline's tunable parameters: a sorted list of
// upstream-window offsets, an intergenic distance bound, and
// feature-type inclusion/exclusion filters.
type Config struct {
	// UpstreamOffsets is the sorted list of upstream-window lengths used
	// to synthesize "potential promoter" intervals in Stage A.
	UpstreamOffsets []int

	// MaxIntergenicDistance bounds how far Stage C will look for a
	// nearest gene before classifying a non-overlapping peak "none"
	// instead of "intergenic". Zero means unbounded.
	MaxIntergenicDistance int

	// IncludeTypes, if non-empty, restricts Stage A's pass-through of raw
	// GFF features to these types. ExcludeTypes removes types even if
	// IncludeTypes would otherwise admit them. Both are evaluated against
	// gff.Feature.Type.
	IncludeTypes []string
	ExcludeTypes []string
}

// normalize returns cfg with UpstreamOffsets sorted ascending, the order
// in which Stage A synthesizes upstream windows.
func (cfg Config) normalize() Config {
	offsets := append([]int(nil), cfg.UpstreamOffsets...)
	sort.Ints(offsets)
	cfg.UpstreamOffsets = offsets
	return cfg
}

func (cfg Config) typeAllowed(t string) bool {
	if len(cfg.IncludeTypes) > 0 && !containsString(cfg.IncludeTypes, t) {
		return false
	}
	if containsString(cfg.ExcludeTypes, t) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
