package ovc

import (
	"io"

	"github.com/grailbio/varsupport/allele"
)

// mkRead returns a valid read whose bases all have quality qual.  'N' in
// bases becomes a zero byte.
func mkRead(seqID int, begin PosType, mapq int, name, bases string, qual int) *Read {
	packed := make([]byte, len(bases))
	for i := 0; i < len(bases); i++ {
		if b := allele.ASCIIToEnum(bases[i]); b != allele.BaseX {
			packed[i] = b<<6 | byte(qual)
		}
	}
	return &Read{SeqID: seqID, Begin: begin, MapQ: mapq, Bases: packed, Name: name, Valid: true}
}

func mkVariant(seqID int, begin, end PosType, ref, code byte) *Variant {
	return &Variant{SeqID: seqID, Begin: begin, End: end, RefAllele: ref, Code: code}
}

type sliceReads struct {
	reads []*Read
}

func (s *sliceReads) Next() (*Read, error) {
	if len(s.reads) == 0 {
		return nil, io.EOF
	}
	r := s.reads[0]
	s.reads = s.reads[1:]
	return r, nil
}

type sliceVariants struct {
	variants []*Variant
}

func (s *sliceVariants) Next() (*Variant, error) {
	if len(s.variants) == 0 {
		return nil, io.EOF
	}
	v := s.variants[0]
	s.variants = s.variants[1:]
	return v, nil
}

type row struct {
	v       *Variant
	refBase byte
	alleles []byte
	stats   VariantStats
}

type collectSink struct {
	rows []row
}

func (c *collectSink) WriteRow(v *Variant, refBase byte, alleles []byte, stats *VariantStats) error {
	c.rows = append(c.rows, row{v: v, refBase: refBase, alleles: alleles, stats: *stats})
	return nil
}

// scenarioReads covers position 100 with A (q30), A (q20) and C (q25).
func scenarioReads() []*Read {
	return []*Read{
		mkRead(0, 95, 20, "r1", "CCCCCACCCC", 30),
		mkRead(0, 98, 30, "r2", "GGAGGGGGGG", 20),
		mkRead(0, 100, 25, "r3", "CTTTTTTTTT", 25),
	}
}
