// Package fasta contains an in-memory FASTA parser, used as an alternative to
// the packed .bfa reference store.  FASTA files consist of a number of named
// sequences that may be interrupted by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appearing after a space is ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 * 300 // 300 MB
)

// Fasta represents FASTA-formatted data, consisting of a set of named
// sequences.
type Fasta interface {
	// Base returns the (upper-cased) character at 0-based position pos.
	Base(seqName string, pos uint64) (byte, error)

	// Len returns the length of the given sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string][]byte
	seqNames []string
}

// New creates a new Fasta that holds all the FASTA data from the given reader
// in memory.  Bases are upper-cased on load.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string][]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var seqName string
	var seq []byte
	started := false
	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if started {
				if err := f.add(seqName, seq); err != nil {
					return nil, err
				}
			}
			name := line[1:]
			if i := bytes.IndexAny(name, " \t"); i >= 0 {
				name = name[:i]
			}
			seqName = string(name)
			seq = nil
			started = true
			continue
		}
		if !started {
			return nil, errors.Errorf("malformed FASTA file: sequence data before the first header")
		}
		seq = append(seq, bytes.ToUpper(line)...)
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if !started {
		return nil, errors.Errorf("empty FASTA file")
	}
	if err := f.add(seqName, seq); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *fasta) add(seqName string, seq []byte) error {
	if seqName == "" {
		return errors.Errorf("malformed FASTA file: empty sequence name")
	}
	if _, found := f.seqs[seqName]; found {
		return errors.Errorf("malformed FASTA file: duplicate sequence %s", seqName)
	}
	f.seqs[seqName] = seq
	f.seqNames = append(f.seqNames, seqName)
	return nil
}

// Base implements Fasta.Base().
func (f *fasta) Base(seqName string, pos uint64) (byte, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	if pos >= uint64(len(s)) {
		return 0, errors.Errorf("position %d past end of sequence %s with length %d", pos, seqName, len(s))
	}
	return s[pos], nil
}

// Len implements Fasta.Len().
func (f *fasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
