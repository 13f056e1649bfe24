// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
peak-seq extracts the reference sequence under each interval of a BED
file, optionally padded by a flank on both sides, and writes the results
as FASTA. It is a companion to peak-classifier: run after classification
to pull out the sequence context of interesting peaks.
*/

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/grailbio/peakclassifier/encoding/bed"
	"github.com/grailbio/peakclassifier/encoding/fasta"
	"github.com/grailbio/peakclassifier/errcode"
)

var (
	flank     = flag.Int("flank", 0, "Bases of flanking sequence to add on each side of every interval")
	outPath   = flag.String("out", "", "Output FASTA path; defaults to stdout")
	wrapWidth = flag.Int("wrap", 60, "Sequence characters per output line; 0 means unlimited")
	clean     = flag.Bool("clean", false, "Replace non-ACGT bases with N in the output")
)

func peakSeqUsage() {
	fmt.Printf("Usage: %s [OPTIONS] reference.fasta peaks.bed\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func openReference(refPath string, clean bool) (fasta.Fasta, error) {
	refFile, err := os.Open(refPath)
	if err != nil {
		return nil, errcode.ResourceError(err)
	}
	defer refFile.Close()

	var opts []fasta.Opt
	if clean {
		opts = append(opts, fasta.OptClean)
	}
	f, err := fasta.New(refFile, opts...)
	if err != nil {
		return nil, errcode.DataError(fmt.Errorf("reference_read: %w", err))
	}
	return f, nil
}

// flankedRange returns the 0-based half-open [start, end) interval for
// start0/end0 padded by flank bases on each side, clamped to [0, seqLen).
// The clamping happens in int arithmetic so a flank larger than start0
// cannot underflow before the clamp is applied.
func flankedRange(start0, end0, flank int, seqLen uint64) (uint64, uint64) {
	lo := start0 - flank
	if lo < 0 {
		lo = 0
	}
	hi := end0 + flank
	if hi > int(seqLen) {
		hi = int(seqLen)
	}
	if hi < lo {
		hi = lo
	}
	return uint64(lo), uint64(hi)
}

func extractPeaks(ref fasta.Fasta, bedPath string, flank int, w *fasta.Writer) error {
	bf, err := os.Open(bedPath)
	if err != nil {
		return errcode.ResourceError(err)
	}
	defer bf.Close()

	r := bed.NewReader(bf, 3)
	if _, err := r.SkipHeader(); err != nil {
		return errcode.ResourceError(err)
	}

	var rec bed.Feature
	var out fasta.Record
	for {
		code, err := r.Read(&rec)
		if err != nil {
			return errcode.DataError(fmt.Errorf("peaks_read: %w", err))
		}
		if code == errcode.ReadEOF {
			break
		}
		if code != errcode.ReadOK {
			return errcode.DataError(fmt.Errorf("peaks_read: %s", code))
		}

		seqLen, err := ref.Len(rec.Chrom)
		if err != nil {
			return errcode.DataError(fmt.Errorf("peak_seq: unknown reference sequence %q: %w", rec.Chrom, err))
		}
		start, end := flankedRange(rec.ChromStart, rec.ChromEnd, flank, seqLen)
		if end <= start {
			continue
		}
		seq, err := ref.Get(rec.Chrom, start, end)
		if err != nil {
			return errcode.DataError(fmt.Errorf("peak_seq: %w", err))
		}

		out.Init()
		name := rec.Chrom
		if rec.Fields >= 4 && rec.Name != "" {
			name = rec.Name
		}
		out.Description = fmt.Sprintf(">%s %s:%d-%d", name, rec.Chrom, start, end)
		out.Sequence.AppendString(seq)
		if _, err := w.Write(&out); err != nil {
			return errcode.ResourceError(err)
		}
	}
	return nil
}

func main() {
	flag.Usage = peakSeqUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Missing positional arguments (reference.fasta and peaks.bed required); got %q\n", flag.Args())
		flag.Usage()
		os.Exit(errcode.ExitUsage65)
	}
	refPath, bedPath := flag.Arg(0), flag.Arg(1)

	ref, err := openReference(refPath, *clean)
	if err != nil {
		exitOnError("peak-seq", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			exitOnError("peak-seq", errcode.ResourceError(err))
		}
		defer f.Close()
		out = f
	}

	w := fasta.NewWriter(out, *wrapWidth)
	if err := extractPeaks(ref, bedPath, *flank, w); err != nil {
		exitOnError("peak-seq", err)
	}
	log.Debug.Printf("exiting")
}

func exitOnError(component string, err error) {
	var fatal *errcode.Fatal
	if errors.As(err, &fatal) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", component, fatal.Err)
		os.Exit(fatal.Code)
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", component, err)
	os.Exit(1)
}
