package classifier

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/grailbio/peakclassifier/chromorder"
	"github.com/grailbio/peakclassifier/encoding/bed"
	"github.com/grailbio/peakclassifier/encoding/gff"
	"github.com/grailbio/peakclassifier/errcode"
	"github.com/grailbio/peakclassifier/openstream"
)

// Run executes the full pipeline: it opens the peaks BED and features
// GFF3 inputs (through the stream-open contract of package openstream)
// concurrently with golang.org/x/sync/errgroup, runs the
// synthesize/join/annotate stages over the loaded records, and returns
// the classified rows.
// viewerBin/viewerArgs are forwarded to openstream for .bam/.cram/.sam
// inputs; they are unused for plain or .gz/.xz/.bz2 text inputs.
func Run(peaksPath, gffPath, viewerBin, viewerArgs string, cfg Config) ([]Row, error) {
	var peaks []Peak
	var features []*gff.Feature

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		p, err := readPeaks(peaksPath, viewerBin, viewerArgs)
		if err != nil {
			return err
		}
		peaks = p
		return nil
	})
	g.Go(func() error {
		f, err := readFeatures(gffPath, viewerBin, viewerArgs)
		if err != nil {
			return err
		}
		features = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkPeaksSorted(peaks); err != nil {
		return nil, err
	}

	augmented := Synthesize(features, cfg)
	byPeak := Join(peaks, augmented)
	return Annotate(peaks, byPeak, augmented, cfg), nil
}

func readPeaks(path, viewerBin, viewerArgs string) ([]Peak, error) {
	f, err := openstream.Open(path, viewerBin, viewerArgs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bed.NewReader(f, 3)
	if _, err := r.SkipHeader(); err != nil {
		return nil, errcode.ResourceError(err)
	}

	var peaks []Peak
	var rec bed.Feature
	for {
		code, err := r.Read(&rec)
		if err != nil {
			return nil, errcode.DataError(fmt.Errorf("peaks_read: %w", err))
		}
		if code == errcode.ReadEOF {
			break
		}
		if code != errcode.ReadOK {
			return nil, errcode.DataError(fmt.Errorf("peaks_read: %s", code))
		}
		var line strings.Builder
		if _, err := bed.NewWriter(&line).Write(&rec); err != nil {
			return nil, errcode.ResourceError(err)
		}
		peaks = append(peaks, Peak{
			Chrom: rec.Chrom, Start0: rec.ChromStart, End0: rec.ChromEnd,
			Line: strings.TrimSuffix(line.String(), "\n"),
		})
	}
	return peaks, nil
}

func readFeatures(path, viewerBin, viewerArgs string) ([]*gff.Feature, error) {
	f, err := openstream.Open(path, viewerBin, viewerArgs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := gff.NewReader(f, 0)
	if _, err := r.SkipHeader(); err != nil {
		return nil, errcode.ResourceError(err)
	}

	var features []*gff.Feature
	var rec gff.Feature
	for {
		code, err := r.Read(&rec)
		if err != nil {
			return nil, errcode.DataError(fmt.Errorf("gff_read: %w", err))
		}
		if code == errcode.ReadEOF {
			break
		}
		if code != errcode.ReadOK {
			return nil, errcode.DataError(fmt.Errorf("gff_read: %s", code))
		}
		if rec.Sentinel {
			continue
		}
		features = append(features, rec.Dup())
	}
	return features, nil
}

// checkPeaksSorted enforces the sort-order precondition of the peak
// stream; a violation is fatal.
func checkPeaksSorted(peaks []Peak) error {
	for i := 1; i < len(peaks); i++ {
		c, err := chromorder.Compare(peaks[i-1].Chrom, peaks[i].Chrom)
		if err != nil {
			return errcode.DataError(err)
		}
		if c > 0 || (c == 0 && peaks[i].Start0 < peaks[i-1].Start0) {
			return errcode.DataError(fmt.Errorf(
				"peaks_read: unsorted input at %s:%d after %s:%d",
				peaks[i].Chrom, peaks[i].Start0, peaks[i-1].Chrom, peaks[i-1].Start0))
		}
	}
	return nil
}
