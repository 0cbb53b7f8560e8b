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

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/varsupport/ovc"
)

var (
	mapq            = flag.Int("mapq", ovc.DefaultOpts.MapqCutoff, "Reads with MAPQ below this level never match an allele")
	minBaseQual     = flag.Int("min-base-qual", ovc.DefaultOpts.MinBaseQual, "Bases with quality below this level never match an allele")
	dedupTol        = flag.Int("dedup-tol", ovc.DefaultOpts.DedupTolerance, "Reads whose start positions differ by at most this much count once in the URC columns")
	refPath         = flag.String("ref", ovc.DefaultOpts.RefPath, "Optional .bfa or FASTA reference for the REF column; REF is N when omitted")
	bedPath         = flag.String("bed", ovc.DefaultOpts.BedPath, "Optional BED path; variants starting outside it are skipped")
	oneBased        = flag.Bool("one-based", ovc.DefaultOpts.OneBasedVariants, "Variant-list coordinates are 1-based")
	reportUncovered = flag.Bool("report-uncovered", ovc.DefaultOpts.ReportUncovered, "Also emit all-zero rows for variants no read overlaps")
	format          = flag.String("format", ovc.DefaultOpts.Format, "Read file format; 'maq' or 'bam'.  Guessed from the extension when empty")
	outPath         = flag.String("out", "-", "Output path; '-' for stdout.  A .gz suffix produces BGZF output")
)

func bioVarsupportUsage() {
	fmt.Printf("Usage: %s [OPTIONS] mappath variantpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

// positionalArgs checks that exactly the read and variant paths were given.
func positionalArgs(args []string) (readPath, variantPath string, err error) {
	switch {
	case len(args) < 2:
		return "", "", fmt.Errorf("missing positional arguments (mappath and variantpath required); please check flag syntax: '%s'", strings.Join(args, " "))
	case len(args) > 2:
		return "", "", fmt.Errorf("too many positional arguments (only mappath and variantpath expected); please check flag syntax: '%s'", strings.Join(args, " "))
	}
	return args[0], args[1], nil
}

func optsFromFlags() ovc.Opts {
	return ovc.Opts{
		MapqCutoff:       *mapq,
		MinBaseQual:      *minBaseQual,
		DedupTolerance:   *dedupTol,
		RefPath:          *refPath,
		BedPath:          *bedPath,
		OneBasedVariants: *oneBased,
		ReportUncovered:  *reportUncovered,
		Format:           *format,
	}
}

func main() {
	flag.Usage = bioVarsupportUsage
	shutdown := grail.Init()
	defer shutdown()

	readPath, variantPath, err := positionalArgs(flag.Args())
	if err != nil {
		flag.Usage()
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()
	opts := optsFromFlags()
	if err := ovc.Run(ctx, readPath, variantPath, *outPath, opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
