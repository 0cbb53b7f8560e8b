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

type syncState int

const (
	unsynchronized syncState = iota
	synchronized
)

// synchronizer positions the read and variant streams on a common sequence
// ID.
type synchronizer struct {
	reads    *readStream
	variants *variantStream
	// nRef is the number of known reference sequences.  IDs at or past it end
	// synchronization.
	nRef int

	state syncState
	seqID int
}

func newSynchronizer(reads *readStream, variants *variantStream, nRef int) *synchronizer {
	return &synchronizer{reads: reads, variants: variants, nRef: nRef, seqID: -1}
}

// sync discards records from whichever stream lags until both streams' next
// records share a sequence ID, and returns that ID.  It returns an error
// wrapping ErrSynchronizationExhausted if either stream ends first or reaches
// an ID >= nRef.
func (s *synchronizer) sync() (int, error) {
	for {
		r, err := s.reads.peek()
		if err != nil {
			return -1, s.exhausted(err, "reads")
		}
		v, err := s.variants.peek()
		if err != nil {
			return -1, s.exhausted(err, "variants")
		}
		if r.SeqID >= s.nRef {
			return -1, errors.Wrapf(ErrSynchronizationExhausted, "read sequence ID %d >= %d", r.SeqID, s.nRef)
		}
		if v.SeqID >= s.nRef {
			return -1, errors.Wrapf(ErrSynchronizationExhausted, "variant sequence ID %d >= %d", v.SeqID, s.nRef)
		}
		switch {
		case r.SeqID == v.SeqID:
			s.state = synchronized
			s.seqID = r.SeqID
			return s.seqID, nil
		case r.SeqID < v.SeqID:
			_, _ = s.reads.next()
		default:
			_, _ = s.variants.next()
		}
	}
}

func (s *synchronizer) exhausted(err error, stream string) error {
	s.state = unsynchronized
	if err == io.EOF {
		return errors.Wrapf(ErrSynchronizationExhausted, "end of %s", stream)
	}
	return err
}

// advance discards whatever remains of the current chromosome on both
// streams, then synchronizes on the next common ID.
func (s *synchronizer) advance() (int, error) {
	if s.state == synchronized {
		nRead, nVariant := 0, 0
		for {
			r, err := s.reads.next()
			if err != nil {
				if err != io.EOF {
					return -1, err
				}
				break
			}
			if r.SeqID != s.seqID {
				s.reads.unread(r)
				break
			}
			nRead++
		}
		for {
			v, err := s.variants.next()
			if err != nil {
				if err != io.EOF {
					return -1, err
				}
				break
			}
			if v.SeqID != s.seqID {
				s.variants.unread(v)
				break
			}
			nVariant++
		}
		if nRead > 0 || nVariant > 0 {
			log.Debug.Printf("synchronizer: skipped %d read(s), %d variant(s) left on sequence %d", nRead, nVariant, s.seqID)
		}
		s.state = unsynchronized
	}
	return s.sync()
}
