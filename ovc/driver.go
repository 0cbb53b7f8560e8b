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

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/varsupport/allele"
	"github.com/grailbio/varsupport/reference"
	"github.com/pkg/errors"
)

// Summary counts what a run did.
type Summary struct {
	// Chromosomes is the number of chromosomes swept.
	Chromosomes int
	// VariantsSwept is the number of variants presented to a sweep.
	VariantsSwept int
	RowsWritten   int
	// RowsSkipped counts covered variants with an unknown allele code.
	RowsSkipped int

	// Filled in by Run from the variant-list reader.
	VariantsRead      int
	VariantsDropped   int
	VariantsOffTarget int
}

// joiner is the state of one Join call.
type joiner struct {
	opts     Opts
	refNames []string
	ref      reference.Lookup
	sink     RowSink

	reads    *readStream
	variants *variantStream
	window   *Window
	calc     *statsCalculator
	summary  Summary
}

// Join sweeps reads against variants one chromosome at a time and sends one
// row per covered variant to sink.  refNames[i] names sequence ID i and
// bounds the IDs that are considered.  ref may be nil, in which case the REF
// column is 'N'.
//
// Running out of common chromosomes ends the run normally unless it happens
// before the first one, in which case the error wraps ErrNoCommonSequence.
func Join(reads ReadSource, variants VariantSource, refNames []string, ref reference.Lookup, sink RowSink, opts Opts) (Summary, error) {
	j := &joiner{
		opts:     opts,
		refNames: refNames,
		ref:      ref,
		sink:     sink,
		reads:    &readStream{src: reads, cutoff: opts.MapqCutoff},
		variants: &variantStream{src: variants},
		window:   NewWindow(),
		calc:     newStatsCalculator(&opts),
	}
	syncer := newSynchronizer(j.reads, j.variants, len(refNames))
	seqID, err := syncer.sync()
	for err == nil {
		j.summary.Chromosomes++
		log.Printf("ovc.Join: processing %s (sequence %d)", refNames[seqID], seqID)
		if err = j.sweep(seqID); err != nil {
			return j.summary, err
		}
		seqID, err = syncer.advance()
	}
	if errors.Cause(err) != ErrSynchronizationExhausted {
		return j.summary, err
	}
	if j.summary.Chromosomes == 0 {
		return j.summary, errors.Wrapf(ErrNoCommonSequence, "%v", err)
	}
	log.Debug.Printf("ovc.Join: done: %v", err)
	return j.summary, nil
}

func (j *joiner) sweep(seqID int) error {
	j.window.Reset()
	nextVariant := func() (*Variant, error) {
		v, err := j.variants.nextOn(seqID)
		if err == nil {
			j.summary.VariantsSwept++
		}
		return v, err
	}
	nextRead := func() (*Read, error) {
		return j.reads.nextOn(seqID)
	}
	return forEachOverlap(nextVariant, nextRead, j.window, j.opts.ReportUncovered, j.emit)
}

// emit computes and writes the row for one variant.
func (j *joiner) emit(v *Variant, window []*Read) error {
	j.window.InvalidateLowQuality(j.opts.MapqCutoff)
	reads := trimTrailing(window, v.End)
	alleles, err := allele.Decode(v.Code)
	if err != nil {
		j.summary.RowsSkipped++
		log.Printf("ovc.Join: line %d: %v; row skipped", v.LineNum, err)
		return nil
	}
	stats := j.calc.compute(v, reads)
	refBase := byte('N')
	if j.ref != nil {
		refBase = j.ref.Base(v.SeqID, j.refNames[v.SeqID], v.Begin)
	}
	if err := j.sink.WriteRow(v, refBase, alleles, &stats); err != nil {
		return err
	}
	j.summary.RowsWritten++
	return nil
}

// trimTrailing drops the reads at the back of the window that begin after
// end.
func trimTrailing(reads []*Read, end PosType) []*Read {
	n := len(reads)
	for n > 0 && reads[n-1].Begin > end {
		n--
	}
	return reads[:n]
}
