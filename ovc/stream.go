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
	"io"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// ReadSource yields reads in nondecreasing (SeqID, Begin) order.  Next
// returns io.EOF after the last read.
type ReadSource interface {
	Next() (*Read, error)
}

// VariantSource yields variants in nondecreasing (SeqID, Begin) order.  Next
// returns io.EOF after the last variant.
type VariantSource interface {
	Next() (*Variant, error)
}

// readStream adds single-record push-back to a ReadSource.
type readStream struct {
	src     ReadSource
	pending *Read
	// cutoff is applied to every read as it is pulled.
	cutoff int
}

func (s *readStream) next() (*Read, error) {
	if r := s.pending; r != nil {
		s.pending = nil
		return r, nil
	}
	r, err := s.src.Next()
	if err != nil {
		return nil, err
	}
	r.Invalidate(s.cutoff)
	return r, nil
}

// unread pushes r back so that the next call to next returns it.  At most one
// record may be pending.
func (s *readStream) unread(r *Read) {
	if s.pending != nil {
		log.Panicf("readStream.unread: %s already pending", s.pending.Name)
	}
	s.pending = r
}

func (s *readStream) peek() (*Read, error) {
	r, err := s.next()
	if err != nil {
		return nil, err
	}
	s.unread(r)
	return r, nil
}

// nextOn returns the next read if it lies on seqID.  Otherwise the read is
// pushed back and ErrSequenceIDMismatch is returned.
func (s *readStream) nextOn(seqID int) (*Read, error) {
	r, err := s.next()
	if err != nil {
		return nil, err
	}
	if r.SeqID != seqID {
		s.unread(r)
		return nil, errors.Wrapf(ErrSequenceIDMismatch, "read %s on sequence %d, want %d", r.Name, r.SeqID, seqID)
	}
	return r, nil
}

// variantStream adds single-record push-back to a VariantSource.
type variantStream struct {
	src     VariantSource
	pending *Variant
}

func (s *variantStream) next() (*Variant, error) {
	if v := s.pending; v != nil {
		s.pending = nil
		return v, nil
	}
	return s.src.Next()
}

func (s *variantStream) unread(v *Variant) {
	if s.pending != nil {
		log.Panicf("variantStream.unread: line %d already pending", s.pending.LineNum)
	}
	s.pending = v
}

func (s *variantStream) peek() (*Variant, error) {
	v, err := s.next()
	if err != nil {
		return nil, err
	}
	s.unread(v)
	return v, nil
}

func (s *variantStream) nextOn(seqID int) (*Variant, error) {
	v, err := s.next()
	if err != nil {
		return nil, err
	}
	if v.SeqID != seqID {
		s.unread(v)
		return nil, errors.Wrapf(ErrSequenceIDMismatch, "variant at line %d on sequence %d, want %d", v.LineNum, v.SeqID, seqID)
	}
	return v, nil
}

// isEndOfChrom reports whether err just marks the end of the current
// chromosome's records.
func isEndOfChrom(err error) bool {
	return err == io.EOF || errors.Cause(err) == ErrSequenceIDMismatch
}
