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

import "github.com/grailbio/varsupport/allele"

// AlleleStats is the read support for one base at one variant.
type AlleleStats struct {
	RawDepth          int
	DedupDepth        int
	LegacyUniqueDepth int
	// MeanQuality and MaxQuality are over the matching bases; both are 0 when
	// RawDepth is 0.
	MeanQuality float64
	MaxQuality  int
}

// VariantStats holds AlleleStats for A, C, G and T, indexed by base enum.
type VariantStats [allele.NBase]AlleleStats

// statsCalculator computes VariantStats, reusing its scratch buffer across
// variants.
type statsCalculator struct {
	minBaseQual    int
	dedupTolerance int
	matches        []*Read
}

func newStatsCalculator(opts *Opts) *statsCalculator {
	return &statsCalculator{
		minBaseQual:    opts.MinBaseQual,
		dedupTolerance: opts.DedupTolerance,
	}
}

// ComputeStatistics returns the per-base support for v among reads.  Only
// valid reads covering v.Begin, with a base of quality >= opts.MinBaseQual
// there, contribute.
func ComputeStatistics(v *Variant, reads []*Read, opts *Opts) VariantStats {
	return newStatsCalculator(opts).compute(v, reads)
}

func (c *statsCalculator) compute(v *Variant, reads []*Read) (stats VariantStats) {
	pos := v.Begin
	for b := byte(0); b < allele.NBase; b++ {
		c.matches = c.matches[:0]
		qualSum := 0
		maxQual := 0
		for _, r := range reads {
			base, qual, ok := r.BaseAt(pos)
			if !ok || base != b || qual < c.minBaseQual {
				continue
			}
			c.matches = append(c.matches, r)
			qualSum += qual
			if qual > maxQual {
				maxQual = qual
			}
		}
		s := &stats[b]
		s.RawDepth = len(c.matches)
		if s.RawDepth == 0 {
			continue
		}
		s.MeanQuality = float64(qualSum) / float64(s.RawDepth)
		s.MaxQuality = maxQual
		s.DedupDepth = DedupCount(c.matches, c.dedupTolerance)
		s.LegacyUniqueDepth = LegacyUniqueCount(c.matches)
	}
	return stats
}
