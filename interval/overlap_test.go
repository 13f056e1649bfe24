package interval

import "testing"

func TestComputeOverlapInternalConsistency(t *testing.T) {
	cases := []struct {
		name                   string
		aStart, aEnd           int
		bStart, bEnd           int
		wantStart, wantEnd     int
		wantLen1, wantLen2     int
		wantLength             int
		wantOverlaps           bool
	}{
		{
			name: "bed converted to 1-based overlapping gff",
			// BED chr1 100 200 (0-based half-open) -> 1-based inclusive 101..200.
			aStart: 101, aEnd: 200,
			bStart: 150, bEnd: 300,
			wantStart: 150, wantEnd: 200,
			wantLen1: 100, wantLen2: 151,
			wantLength: 51, wantOverlaps: true,
		},
		{
			name:   "disjoint intervals",
			aStart: 1, aEnd: 10,
			bStart: 20, bEnd: 30,
			wantStart: 20, wantEnd: 10,
			wantLen1: 10, wantLen2: 11,
			wantLength: -9, wantOverlaps: false,
		},
		{
			name:   "abutting but not overlapping (1-based inclusive)",
			aStart: 1, aEnd: 10,
			bStart: 11, bEnd: 20,
			wantStart: 11, wantEnd: 10,
			wantLen1: 10, wantLen2: 10,
			wantLength: 0, wantOverlaps: false,
		},
		{
			name:   "single base overlap",
			aStart: 1, aEnd: 10,
			bStart: 10, bEnd: 20,
			wantStart: 10, wantEnd: 10,
			wantLen1: 10, wantLen2: 11,
			wantLength: 1, wantOverlaps: true,
		},
		{
			name:   "b entirely inside a",
			aStart: 1, aEnd: 100,
			bStart: 40, bEnd: 60,
			wantStart: 40, wantEnd: 60,
			wantLen1: 100, wantLen2: 21,
			wantLength: 21, wantOverlaps: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := Compute(c.aStart, c.aEnd, c.bStart, c.bEnd)
			if o.Start != c.wantStart || o.End != c.wantEnd {
				t.Fatalf("Start/End = %d/%d, want %d/%d", o.Start, o.End, c.wantStart, c.wantEnd)
			}
			if o.Len1 != c.wantLen1 || o.Len2 != c.wantLen2 {
				t.Fatalf("Len1/Len2 = %d/%d, want %d/%d", o.Len1, o.Len2, c.wantLen1, c.wantLen2)
			}
			if o.Length != c.wantLength {
				t.Fatalf("Length = %d, want %d", o.Length, c.wantLength)
			}
			if o.Overlaps() != c.wantOverlaps {
				t.Fatalf("Overlaps() = %v, want %v", o.Overlaps(), c.wantOverlaps)
			}
			// The formula's own internal identity must always hold,
			// independent of any worked example's specific numbers.
			if o.Length != o.End-o.Start+1 {
				t.Fatalf("Length inconsistent with End-Start+1")
			}
		})
	}
}

func TestComputeSymmetric(t *testing.T) {
	a := Compute(50, 100, 80, 120)
	b := Compute(80, 120, 50, 100)
	if a.Start != b.Start || a.End != b.End || a.Length != b.Length {
		t.Fatalf("Compute should be symmetric in its overlap region: %+v vs %+v", a, b)
	}
}
