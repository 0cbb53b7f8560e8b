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
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/varsupport/allele"
)

const maxPackedQual = 0x3f

// BAMSource is a ReadSource over a coordinate-sorted BAM stream.  Each mapped
// record is projected onto its reference span: aligned bases (M, =, X) keep
// their base and quality, deletions and skips (D, N) become N placeholders,
// and I/S/H/P contribute nothing.  Unmapped records are skipped.
type BAMSource struct {
	r        *bam.Reader
	refNames []string
}

// NewBAMSource wraps a BAM reader.
func NewBAMSource(r *bam.Reader) *BAMSource {
	refs := r.Header().Refs()
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name()
	}
	return &BAMSource{r: r, refNames: names}
}

// RefNames returns the BAM header's reference names, indexed by sequence ID.
func (s *BAMSource) RefNames() []string {
	return s.refNames
}

// Next implements ReadSource.
func (s *BAMSource) Next() (*Read, error) {
	for {
		rec, err := s.r.Read()
		if err != nil {
			return nil, err
		}
		if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil || rec.Ref.ID() < 0 {
			continue
		}
		return NewReadFromSAM(rec), nil
	}
}

// NewReadFromSAM projects a mapped SAM record onto the reference.
func NewReadFromSAM(rec *sam.Record) *Read {
	seq := rec.Seq.Expand()
	span := 0
	for _, op := range rec.Cigar {
		span += op.Len() * op.Type().Consumes().Reference
	}
	bases := make([]byte, 0, span)
	qpos := 0
	for _, op := range rec.Cigar {
		n := op.Len()
		switch op.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			for i := qpos; i < qpos+n && i < len(seq); i++ {
				bases = append(bases, packBase(seq[i], qualAt(rec.Qual, i)))
			}
			qpos += n
		case sam.CigarDeletion, sam.CigarSkipped:
			for i := 0; i < n; i++ {
				bases = append(bases, 0)
			}
		default:
			qpos += n * op.Type().Consumes().Query
		}
	}
	return &Read{
		SeqID:   rec.Ref.ID(),
		Begin:   PosType(rec.Pos),
		MapQ:    int(rec.MapQ),
		Reverse: rec.Flags&sam.Reverse != 0,
		Bases:   bases,
		Name:    rec.Name,
		Valid:   true,
	}
}

func qualAt(qual []byte, i int) int {
	if i >= len(qual) || qual[i] == 0xff {
		return 0
	}
	if q := int(qual[i]); q < maxPackedQual {
		return q
	}
	return maxPackedQual
}

// packBase returns the base<<6 | qual byte for ASCII base c, or 0 (N) for
// anything other than A/C/G/T.
func packBase(c byte, qual int) byte {
	b := allele.ASCIIToEnum(c)
	if b == allele.BaseX {
		return 0
	}
	return b<<6 | byte(qual)
}
