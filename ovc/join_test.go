package ovc

import (
	"bytes"
	"io"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/varsupport/allele"
	"github.com/pkg/errors"
)

func TestForEachOverlap(t *testing.T) {
	reads := &sliceReads{reads: []*Read{
		mkRead(0, 0, 60, "a", "AAAAAAAAAA", 30),  // [0, 9]
		mkRead(0, 5, 60, "b", "AAAAAAAAAA", 30),  // [5, 14]
		mkRead(0, 20, 60, "c", "AAAAAAAAAA", 30), // [20, 29]
		mkRead(0, 40, 60, "d", "AAAAAAAAAA", 30), // [40, 49]
	}}
	variants := &sliceVariants{variants: []*Variant{
		mkVariant(0, 7, 7, 'A', 'N'),
		mkVariant(0, 12, 12, 'A', 'N'),
		mkVariant(0, 30, 35, 'A', 'N'),
		mkVariant(0, 45, 45, 'A', 'N'),
	}}
	var (
		begins  []PosType
		windows [][]string
	)
	err := forEachOverlap(variants.Next, reads.Next, NewWindow(), false, func(v *Variant, window []*Read) error {
		begins = append(begins, v.Begin)
		windows = append(windows, names(window))
		return nil
	})
	assert.NoError(t, err)
	expect.EQ(t, begins, []PosType{7, 12, 45})
	expect.EQ(t, windows, [][]string{{"a", "b", "c"}, {"b", "c"}, {"d"}})
	expect.EQ(t, names(trimTrailing([]*Read{reads0("a", 0), reads0("b", 5), reads0("c", 20)}, 7)), []string{"a", "b"})
}

func reads0(name string, begin PosType) *Read {
	return mkRead(0, begin, 60, name, "AAAAAAAAAA", 30)
}

func TestForEachOverlapReportUncovered(t *testing.T) {
	reads := &sliceReads{reads: []*Read{reads0("a", 0)}}
	variants := &sliceVariants{variants: []*Variant{
		mkVariant(0, 5, 5, 'A', 'N'),
		mkVariant(0, 50, 50, 'A', 'N'),
	}}
	n := 0
	err := forEachOverlap(variants.Next, reads.Next, NewWindow(), true, func(v *Variant, window []*Read) error {
		n++
		return nil
	})
	assert.NoError(t, err)
	expect.EQ(t, n, 2)
}

func TestForEachOverlapPropagatesErrors(t *testing.T) {
	failure := errors.New("disk on fire")
	reads := func() (*Read, error) { return nil, failure }
	variants := &sliceVariants{variants: []*Variant{mkVariant(0, 5, 5, 'A', 'N')}}
	err := forEachOverlap(variants.Next, reads, NewWindow(), false, func(*Variant, []*Read) error { return nil })
	expect.EQ(t, err, failure)
}

func TestStreamPushBack(t *testing.T) {
	s := &readStream{src: &sliceReads{reads: []*Read{
		mkRead(0, 1, 10, "a", "A", 30),
		mkRead(1, 1, 60, "b", "A", 30),
	}}, cutoff: 20}
	r, err := s.nextOn(0)
	assert.NoError(t, err)
	expect.EQ(t, r.Name, "a")
	expect.False(t, r.Valid)

	_, err = s.nextOn(0)
	expect.EQ(t, errors.Cause(err), ErrSequenceIDMismatch)
	expect.True(t, isEndOfChrom(err))
	r, err = s.peek()
	assert.NoError(t, err)
	expect.EQ(t, r.Name, "b")
	r, err = s.nextOn(1)
	assert.NoError(t, err)
	expect.EQ(t, r.Name, "b")
	expect.True(t, r.Valid)
	_, err = s.next()
	expect.EQ(t, err, io.EOF)
}

func TestSynchronizer(t *testing.T) {
	reads := &readStream{src: &sliceReads{reads: []*Read{
		reads0("r0", 0),
		reads0("r0b", 5),
		mkRead(2, 0, 60, "r2", "A", 30),
		mkRead(3, 0, 60, "r3", "A", 30),
	}}}
	variants := &variantStream{src: &sliceVariants{variants: []*Variant{
		mkVariant(1, 0, 0, 'A', 'N'),
		mkVariant(2, 0, 0, 'A', 'N'),
		mkVariant(2, 9, 9, 'A', 'N'),
		mkVariant(3, 0, 0, 'A', 'N'),
		mkVariant(4, 0, 0, 'A', 'N'),
	}}}
	s := newSynchronizer(reads, variants, 4)
	id, err := s.sync()
	assert.NoError(t, err)
	expect.EQ(t, id, 2)
	// Nothing on sequence 2 has been consumed.
	v, err := variants.nextOn(2)
	assert.NoError(t, err)
	expect.EQ(t, v.Begin, PosType(0))

	id, err = s.advance()
	assert.NoError(t, err)
	expect.EQ(t, id, 3)

	_, err = s.advance()
	expect.EQ(t, errors.Cause(err), ErrSynchronizationExhausted)
}

func TestSynchronizerRefCount(t *testing.T) {
	reads := &readStream{src: &sliceReads{reads: []*Read{mkRead(5, 0, 60, "r", "A", 30)}}}
	variants := &variantStream{src: &sliceVariants{variants: []*Variant{mkVariant(5, 0, 0, 'A', 'N')}}}
	_, err := newSynchronizer(reads, variants, 5).sync()
	expect.EQ(t, errors.Cause(err), ErrSynchronizationExhausted)
}

func TestJoin(t *testing.T) {
	v := mkVariant(0, 100, 100, 'A', 'N')
	for _, tt := range []struct {
		cutoff int
		uncov  bool
		nRow   int
		wantA  AlleleStats
		wantC  AlleleStats
	}{
		{15, false, 1, AlleleStats{2, 1, 2, 25, 30}, AlleleStats{1, 1, 1, 25, 25}},
		{35, false, 0, AlleleStats{}, AlleleStats{}},
		{35, true, 1, AlleleStats{}, AlleleStats{}},
	} {
		opts := DefaultOpts
		opts.MapqCutoff = tt.cutoff
		opts.ReportUncovered = tt.uncov
		sink := &collectSink{}
		summary, err := Join(&sliceReads{reads: scenarioReads()}, &sliceVariants{variants: []*Variant{v}},
			[]string{"chr1"}, nil, sink, opts)
		assert.NoError(t, err)
		expect.EQ(t, summary.Chromosomes, 1)
		expect.EQ(t, summary.VariantsSwept, 1)
		expect.EQ(t, summary.RowsWritten, tt.nRow)
		expect.EQ(t, len(sink.rows), tt.nRow)
		if tt.nRow == 0 {
			continue
		}
		r := sink.rows[0]
		expect.EQ(t, r.refBase, byte('N'))
		expect.EQ(t, r.alleles, []byte{allele.BaseA, allele.BaseC, allele.BaseG, allele.BaseT})
		expect.EQ(t, r.stats[allele.BaseA], tt.wantA, "cutoff %d", tt.cutoff)
		expect.EQ(t, r.stats[allele.BaseC], tt.wantC, "cutoff %d", tt.cutoff)
	}
}

func TestJoinReadsExhaustedEarly(t *testing.T) {
	reads := &sliceReads{reads: scenarioReads()}
	variants := &sliceVariants{variants: []*Variant{
		mkVariant(0, 100, 100, 'A', 'N'),
		mkVariant(1, 100, 100, 'A', 'N'),
		mkVariant(1, 200, 200, 'A', 'N'),
	}}
	sink := &collectSink{}
	summary, err := Join(reads, variants, []string{"chr1", "chr2"}, nil, sink, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, summary.Chromosomes, 1)
	expect.EQ(t, len(sink.rows), 1)
	expect.EQ(t, sink.rows[0].v.SeqID, 0)
}

func TestJoinSkipsLaggingSequences(t *testing.T) {
	reads := &sliceReads{reads: []*Read{
		mkRead(0, 100, 60, "r0", "AAAAA", 30),
		mkRead(1, 98, 60, "r1", "GGTGG", 30),
		mkRead(3, 0, 60, "r3", "AAAAA", 30),
	}}
	variants := &sliceVariants{variants: []*Variant{
		mkVariant(1, 100, 100, 'G', 'K'),
		mkVariant(2, 100, 100, 'G', 'K'),
		mkVariant(3, 2, 2, 'A', 'Q'),
		mkVariant(3, 3, 3, 'A', 'A'),
	}}
	sink := &collectSink{}
	summary, err := Join(reads, variants, []string{"a", "b", "c", "d"}, nil, sink, DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, summary.Chromosomes, 2)
	expect.EQ(t, summary.RowsSkipped, 1)
	expect.EQ(t, len(sink.rows), 2)
	expect.EQ(t, sink.rows[0].stats[allele.BaseT].RawDepth, 1)
	expect.EQ(t, sink.rows[0].stats[allele.BaseA].RawDepth, 0)
	expect.EQ(t, sink.rows[1].v.SeqID, 3)
	expect.EQ(t, sink.rows[1].alleles, []byte{allele.BaseA, allele.BaseA})
}

func TestJoinNoCommonSequence(t *testing.T) {
	reads := &sliceReads{reads: []*Read{mkRead(0, 0, 60, "r", "A", 30)}}
	variants := &sliceVariants{variants: []*Variant{mkVariant(1, 0, 0, 'A', 'N')}}
	_, err := Join(reads, variants, []string{"chr1", "chr2"}, nil, &collectSink{}, DefaultOpts)
	expect.EQ(t, errors.Cause(err), ErrNoCommonSequence)

	_, err = Join(&sliceReads{}, &sliceVariants{}, []string{"chr1"}, nil, &collectSink{}, DefaultOpts)
	expect.EQ(t, errors.Cause(err), ErrNoCommonSequence)
}

type fixedRef byte

func (f fixedRef) Base(int, string, PosType) byte { return byte(f) }
func (f fixedRef) Close() error                   { return nil }

func TestRowWriter(t *testing.T) {
	sink := &collectSink{}
	_, err := Join(&sliceReads{reads: scenarioReads()}, &sliceVariants{variants: []*Variant{
		{SeqID: 0, Begin: 100, End: 100, RefAllele: 'A', Code: 'M', RawLine: "chr1 100 100 A M"},
		{SeqID: 0, Begin: 100, End: 100, RefAllele: '-', Code: 'S', RawLine: "chr1 100 100 - S"},
	}}, []string{"chr1"}, fixedRef('G'), sink, DefaultOpts)
	assert.NoError(t, err)
	assert.EQ(t, len(sink.rows), 2)

	var buf bytes.Buffer
	rw := NewRowWriter(&buf)
	for _, r := range sink.rows {
		assert.NoError(t, rw.WriteRow(r.v, r.refBase, r.alleles, &r.stats))
	}
	assert.NoError(t, rw.Flush())
	expect.EQ(t, buf.String(),
		"chr1 100 100 A M\t2,1,0,0\t1,1,0,0\t2,1,0,0\tG\t2,1,2,25,30\t2,1,2,25,30\t1,1,1,25,25\n"+
			"chr1 100 100 - S\t2,1,0,0\t1,1,0,0\t2,1,0,0\tG\t0,0,0,0,0\t0,0,0,0,0\t1,1,1,25,25\n")
}

func TestRowWriterTruncatesMeanQuality(t *testing.T) {
	var stats VariantStats
	stats[allele.BaseT] = AlleleStats{RawDepth: 2, DedupDepth: 1, LegacyUniqueDepth: 2, MeanQuality: 25.5, MaxQuality: 30}
	var buf bytes.Buffer
	rw := NewRowWriter(&buf)
	alleles, err := allele.Decode('T')
	assert.NoError(t, err)
	assert.NoError(t, rw.WriteRow(&Variant{RefAllele: 'T', RawLine: "x"}, 'T', alleles, &stats))
	assert.NoError(t, rw.Flush())
	expect.EQ(t, buf.String(), "x\t0,0,0,2\t0,0,0,1\t0,0,0,2\tT\t2,1,2,25,30\t2,1,2,25,30\t2,1,2,25,30\n")
}
