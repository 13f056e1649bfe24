// Package gff implements the GFF3 annotation format (9 tab-separated
// columns, 1-based inclusive coordinates), plus a positional index that
// lets the classifier pipeline reseek a GFF stream to a nearby earlier
// record.
package gff

// NoPhase is the phase value for features that carry no reading-frame
// phase (CDS-only column; "." on every other feature type).
const NoPhase byte = '.'

// Feature is a single GFF3 record. Score parses as a real number or the
// literal "." (stored as a sentinel): ScoreRaw preserves the exact input
// text so Write reproduces it byte-for-byte, while Score/ScoreValid give
// callers a parsed value to compare against.
type Feature struct {
	SeqID      string
	Source     string
	Type       string // "###" marks the inline sentinel record
	Start      int    // 1-based inclusive
	End        int    // 1-based inclusive
	ScoreRaw   string
	Score      float64
	ScoreValid bool
	Strand     byte
	Phase      byte
	Attributes string // raw column, verbatim, for round-trip fidelity

	// ID, Name, and Parent are eagerly extracted from Attributes on every
	// read. Missing Name becomes "unnamed", missing Parent becomes
	// "noparent", missing ID stays "".
	ID     string
	Name   string
	Parent string

	// Offset is the byte offset of the record's first field, captured
	// before any of it is consumed, so the positional index can reseek a
	// stream to this record's start.
	Offset int64

	Sentinel bool
}

// Init resets rec to the fresh (unpopulated) state, matching the
// init/read/write/free buffer-reuse contract every format in this
// module shares.
func (rec *Feature) Init() {
	rec.SeqID = ""
	rec.Source = ""
	rec.Type = ""
	rec.Start, rec.End = 0, 0
	rec.ScoreRaw = ""
	rec.Score = 0
	rec.ScoreValid = false
	rec.Strand = StrandNone
	rec.Phase = NoPhase
	rec.Attributes = ""
	rec.ID = ""
	rec.Name = ""
	rec.Parent = ""
	rec.Offset = 0
	rec.Sentinel = false
}

// Free returns rec to the fresh state. It is an alias for Init: GFF3
// features own no resources beyond Go-GC'd strings.
func (rec *Feature) Free() { rec.Init() }

// Strand values, matching bed.StrandPlus/StrandMinus/StrandNone.
const (
	StrandPlus  byte = '+'
	StrandMinus byte = '-'
	StrandNone  byte = '.'
)

// copy overwrites dst with a deep copy of rec: every owned string is
// reassigned (Go strings are immutable, so assignment alone already
// shares no mutable backing storage, but copy exists as a named
// operation so callers don't need to know that).
func (rec *Feature) copy(dst *Feature) {
	*dst = *rec
}

// Dup returns a deep copy of rec.
func (rec *Feature) Dup() *Feature {
	dst := &Feature{}
	rec.copy(dst)
	return dst
}

// ChromName, Start1, and End1 implement interval.Positioned: GFF3
// coordinates are already 1-based inclusive, so no conversion is needed.
func (rec *Feature) ChromName() string { return rec.SeqID }
func (rec *Feature) Start1() int       { return rec.Start }
func (rec *Feature) End1() int         { return rec.End }
