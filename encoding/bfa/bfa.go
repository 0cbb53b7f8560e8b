// Package bfa reads and writes Maq binary FASTA (".bfa") reference files.
//
// Each sequence is stored as its name, its original length, and two parallel
// arrays of 64-bit words: seq packs 32 bases per word at 2 bits per base
// (first base in the most significant bits), and mask holds 0b11 for every
// position whose base is known and 0b00 for Ns.  All integers are
// little-endian.
package bfa

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const maxNameLen = 1 << 16

// Seq is one packed reference sequence.
type Seq struct {
	Name string
	// OriLen is the number of bases.
	OriLen int
	Seq    []uint64
	Mask   []uint64
}

// Base returns the ASCII base at 0-based position pos, or 'N' when the
// position is masked or out of range.
func (s *Seq) Base(pos int) byte {
	if pos < 0 || pos >= s.OriLen || pos>>5 >= len(s.Seq) {
		return 'N'
	}
	word := s.Seq[pos>>5]
	mask := s.Mask[pos>>5]
	shift := uint(31-(pos&0x1f)) << 1
	if (mask>>shift)&3 == 0 {
		return 'N'
	}
	return "ACGT"[(word>>shift)&3]
}

// Pack converts an ASCII sequence to a Seq.  Characters other than
// (case-insensitive) A/C/G/T are masked.
func Pack(name string, bases []byte) *Seq {
	nWord := (len(bases) + 31) >> 5
	s := &Seq{
		Name:   name,
		OriLen: len(bases),
		Seq:    make([]uint64, nWord),
		Mask:   make([]uint64, nWord),
	}
	for pos, c := range bases {
		var code uint64
		switch c | 0x20 {
		case 'a':
			code = 0
		case 'c':
			code = 1
		case 'g':
			code = 2
		case 't':
			code = 3
		default:
			continue
		}
		shift := uint(31-(pos&0x1f)) << 1
		s.Seq[pos>>5] |= code << shift
		s.Mask[pos>>5] |= 3 << shift
	}
	return s
}

// Reader iterates over the sequences of a .bfa stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next loads the next sequence.  It returns io.EOF after the last one.
func (r *Reader) Next() (*Seq, error) {
	var nameLen int32
	if err := binary.Read(r.r, binary.LittleEndian, &nameLen); err != nil {
		// A clean end of stream can only occur here.
		return nil, err
	}
	if nameLen <= 0 || nameLen > maxNameLen {
		return nil, fmt.Errorf("bfa: bad name length %d", nameLen)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r.r, name); err != nil {
		return nil, errors.Wrap(noEOF(err), "bfa: reading name")
	}
	s := &Seq{Name: string(bytes.TrimRight(name, "\x00"))}
	var oriLen, nWord int32
	if err := binary.Read(r.r, binary.LittleEndian, &oriLen); err != nil {
		return nil, errors.Wrapf(noEOF(err), "bfa: reading length of %s", s.Name)
	}
	if err := binary.Read(r.r, binary.LittleEndian, &nWord); err != nil {
		return nil, errors.Wrapf(noEOF(err), "bfa: reading word count of %s", s.Name)
	}
	if oriLen < 0 || nWord < 0 || int(nWord) < (int(oriLen)+31)>>5 {
		return nil, fmt.Errorf("bfa: inconsistent lengths (%d bases, %d words) for %s", oriLen, nWord, s.Name)
	}
	s.OriLen = int(oriLen)
	s.Seq = make([]uint64, nWord)
	s.Mask = make([]uint64, nWord)
	if err := binary.Read(r.r, binary.LittleEndian, s.Seq); err != nil {
		return nil, errors.Wrapf(noEOF(err), "bfa: reading bases of %s", s.Name)
	}
	if err := binary.Read(r.r, binary.LittleEndian, s.Mask); err != nil {
		return nil, errors.Wrapf(noEOF(err), "bfa: reading mask of %s", s.Name)
	}
	return s, nil
}

// Skip advances past sequences until one named name is loaded.  It returns
// io.EOF if the stream ends first.
func (r *Reader) Skip(name string) (*Seq, error) {
	for {
		s, err := r.Next()
		if err != nil {
			return nil, err
		}
		if s.Name == name {
			return s, nil
		}
	}
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Write appends s to w in .bfa layout.
func Write(w io.Writer, s *Seq) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s.Name)+1)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s.Name); err != nil {
		return err
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return err
	}
	for _, v := range []interface{}{int32(s.OriLen), int32(len(s.Seq)), s.Seq, s.Mask} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}
