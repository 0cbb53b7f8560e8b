package fasta_test

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/varsupport/encoding/fasta"
)

const fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "acgt\r\n" + "ACGT\n"

func TestBaseAndLen(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	b, err := fa.Base("seq2", 1)
	assert.NoError(t, err)
	expect.EQ(t, b, byte('C'))
	_, err = fa.Base("seq2", 8)
	expect.NotNil(t, err)
	_, err = fa.Base("seq3", 0)
	expect.NotNil(t, err)

	// Lines are joined and lower case is folded.
	for i, want := range []byte("ACGTACGTACGT") {
		b, err = fa.Base("seq1", uint64(i))
		assert.NoError(t, err)
		expect.EQ(t, b, want, "pos %d", i)
	}
	b, err = fa.Base("seq2", 6)
	assert.NoError(t, err)
	expect.EQ(t, b, byte('G'))

	n, err := fa.Len("seq1")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(12))
	expect.EQ(t, fa.SeqNames(), []string{"seq1", "seq2"})
}

func TestMalformed(t *testing.T) {
	for _, data := range []string{
		"",
		"ACGT\n>seq1\nACGT\n",
		">seq1\nA\n>seq1\nC\n",
		">\nACGT\n",
	} {
		_, err := fasta.New(strings.NewReader(data))
		expect.NotNil(t, err, "%q", data)
	}
}
