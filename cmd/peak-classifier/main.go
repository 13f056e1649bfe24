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
peak-classifier annotates a sorted BED file of ChIP-seq/ATAC-seq peaks
against a GFF3 gene model, reporting for every peak the gene features it
overlaps (gene, exon, intron, upstream-<offset>, ...) or, failing any
overlap, the distance to its nearest gene.
*/

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"

	"github.com/grailbio/peakclassifier/classifier"
	"github.com/grailbio/peakclassifier/errcode"
)

var (
	outPath               = flag.String("out", "", "Output TSV path; defaults to stdout")
	viewerBin             = flag.String("tool", "", "Path to an external {b,cr,s}am-viewer binary, required when peaks or features are supplied in .bam/.cram/.sam form")
	viewerArgs            = flag.String("tool-args", "", "Extra arguments passed to -tool; a non-empty value forces .sam inputs through -tool as well")
	upstream              = flag.String("upstream", "2000", "Comma-separated list of upstream-window offsets, in bases")
	maxIntergenicDistance = flag.Int("max-intergenic-distance", 0, "Peaks farther than this from any gene are classified \"none\" instead of \"intergenic\"; 0 means unbounded")
	includeTypes          = flag.String("include-types", "", "Comma-separated GFF3 feature types to keep; empty means keep all")
	excludeTypes          = flag.String("exclude-types", "", "Comma-separated GFF3 feature types to drop")
)

func peakClassifierUsage() {
	fmt.Printf("Usage: %s [OPTIONS] peaks.bed features.gff3\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q: %w", tok, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func writeRows(path string, rows []classifier.Row) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errcode.ResourceError(err)
		}
		defer f.Close()
		w = f
	}
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString("PEAK")
	tsvw.WriteString("FEATURE_TYPE")
	tsvw.WriteString("FEATURE_NAME")
	tsvw.WriteString("OVERLAP_LEN")
	tsvw.WriteString("CLASSIFICATION")
	tsvw.WriteString("DISTANCE")
	if err := tsvw.EndLine(); err != nil {
		return errcode.ResourceError(err)
	}
	for _, row := range rows {
		tsvw.WriteString(row.Peak.Line)
		tsvw.WriteString(row.FeatureType)
		tsvw.WriteString(row.FeatureName)
		tsvw.WriteInt64(int64(row.OverlapLen))
		tsvw.WriteString(row.Classification)
		tsvw.WriteInt64(int64(row.Distance))
		if err := tsvw.EndLine(); err != nil {
			return errcode.ResourceError(err)
		}
	}
	if err := tsvw.Flush(); err != nil {
		return errcode.ResourceError(err)
	}
	return nil
}

func main() {
	flag.Usage = peakClassifierUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Missing positional arguments (peaks.bed and features.gff3 required); got %q\n", flag.Args())
		flag.Usage()
		os.Exit(errcode.ExitUsage65)
	}
	peaksPath, gffPath := flag.Arg(0), flag.Arg(1)

	offsets, err := parseIntList(*upstream)
	if err != nil {
		fmt.Fprintf(os.Stderr, "peak-classifier: %v\n", err)
		os.Exit(errcode.ExitUsage65)
	}

	cfg := classifier.Config{
		UpstreamOffsets:       offsets,
		MaxIntergenicDistance: *maxIntergenicDistance,
		IncludeTypes:          parseStringList(*includeTypes),
		ExcludeTypes:          parseStringList(*excludeTypes),
	}

	rows, err := classifier.Run(peaksPath, gffPath, *viewerBin, *viewerArgs, cfg)
	if err != nil {
		exitOnError("peak-classifier", err)
	}

	if err := writeRows(*outPath, rows); err != nil {
		exitOnError("peak-classifier", err)
	}
	log.Debug.Printf("exiting, %d rows written", len(rows))
}

// exitOnError translates a library error into a sysexits-style process
// exit: a *errcode.Fatal carries its own exit code, anything else is an
// unanticipated failure.
func exitOnError(component string, err error) {
	var fatal *errcode.Fatal
	if errors.As(err, &fatal) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", component, fatal.Err)
		os.Exit(fatal.Code)
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", component, err)
	os.Exit(1)
}
