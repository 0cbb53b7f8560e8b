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

package ovc

// Opts controls a join run.
type Opts struct {
	// MapqCutoff marks reads with mapping quality below it invalid.  Invalid
	// reads stay in the window but never match an allele.
	MapqCutoff int
	// MinBaseQual is the minimum base quality for a base to match an allele.
	MinBaseQual int
	// DedupTolerance is the maximum start-position difference for two reads
	// to land in the same dedup cluster.
	DedupTolerance int

	// RefPath is an optional .bfa or FASTA reference used to fill in the REF
	// column.  When empty, REF is 'N'.
	RefPath string
	// BedPath is an optional BED file; variants whose begin lies outside it
	// are skipped.
	BedPath string
	// OneBasedVariants interprets variant-list coordinates as 1-based.
	OneBasedVariants bool
	// ReportUncovered emits a row even for variants no read overlaps.
	ReportUncovered bool
	// Format is the read-stream format: "maq", "bam", or "" to guess from the
	// path extension.
	Format string
}

// DefaultOpts are the settings used by the original tool.
var DefaultOpts = Opts{
	MapqCutoff:     0,
	MinBaseQual:    0,
	DedupTolerance: 26,
}
