package classifier

// AugmentedFeature is one entry of the synthesized feature stream: a
// BED-like 0-based half-open interval carrying the feature type (or a
// synthesized "upstream-<u>"/"intron" type) and the owning gene's
// name/ID for the join against peaks.
type AugmentedFeature struct {
	Chrom      string
	Start0     int
	End0       int
	Type       string
	GeneName   string
	SourceGene string // gene ID, used only to group synthesis, not emitted
}

// ChromName, Start1, and End1 implement interval.Positioned.
func (f AugmentedFeature) ChromName() string { return f.Chrom }
func (f AugmentedFeature) Start1() int       { return f.Start0 + 1 }
func (f AugmentedFeature) End1() int         { return f.End0 }

// Pairing is one (peak, overlapping feature) row of Stage B's join
// output, before Stage C's classification token is attached.
type Pairing struct {
	Peak        Peak
	Feature     AugmentedFeature
	OverlapLen  int
}

// Peak is the BED peak interval being classified, reduced to the fields
// the pipeline needs; all BED columns of the peak survive into the join
// output through Line, which every Row carries as Row.Peak.Line.
type Peak struct {
	Chrom      string
	Start0     int
	End0       int
	Line       string // all of the peak's BED columns, as re-emitted by bed.Writer, for passthrough
}

// ChromName, Start1, and End1 implement interval.Positioned.
func (p Peak) ChromName() string { return p.Chrom }
func (p Peak) Start1() int       { return p.Start0 + 1 }
func (p Peak) End1() int         { return p.End0 }

// Row is one final Stage C output record.
type Row struct {
	Peak           Peak
	FeatureType    string // "" for synthetic intergenic/none rows
	FeatureName    string
	OverlapLen     int // 0 for synthetic rows
	Classification string
	Distance       int // distance to nearest gene, set only for intergenic/none rows
}
