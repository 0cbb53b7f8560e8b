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
	"github.com/grailbio/varsupport/allele"
	"github.com/grailbio/varsupport/encoding/maqmap"
	"github.com/grailbio/varsupport/interval"
)

// PosType is a 0-based reference position.
type PosType = interval.PosType

// Read is one aligned read, projected onto the reference.
type Read struct {
	SeqID int
	// Begin is the 0-based reference position of Bases[0].
	Begin PosType
	MapQ  int
	// Reverse is set for reads aligned to the reverse strand.
	Reverse bool
	// Bases holds one packed byte per reference position: base<<6 | qual,
	// with base in {0,1,2,3} = {A,C,G,T}.  A zero byte is an N and never
	// matches.
	Bases []byte
	Name  string
	// Valid is cleared for reads whose mapping quality is below the run's
	// cutoff.
	Valid bool
}

// End returns the 0-based position of the last reference base covered by the
// read.  End < Begin for an empty read.
func (r *Read) End() PosType {
	return r.Begin + PosType(len(r.Bases)) - 1
}

// Covers reports whether pos lies in [Begin, End].
func (r *Read) Covers(pos PosType) bool {
	return pos >= r.Begin && pos <= r.End()
}

// BaseAt returns the base enum (allele.BaseA..BaseT) and quality at reference
// position pos.  ok is false if the read is invalid, doesn't cover pos, or has
// an N there.
func (r *Read) BaseAt(pos PosType) (base byte, qual int, ok bool) {
	if !r.Valid || !r.Covers(pos) {
		return allele.BaseX, 0, false
	}
	b := r.Bases[pos-r.Begin]
	if b == 0 {
		return allele.BaseX, 0, false
	}
	return (b >> 6) & 3, int(b & 0x3f), true
}

// Invalidate clears Valid if the read's mapping quality is below cutoff.
// Calling it again has no further effect.
func (r *Read) Invalidate(cutoff int) {
	if r.MapQ < cutoff {
		r.Valid = false
	}
}

// NewReadFromMaq converts a Maq alignment record.  Bases are copied, so rec
// may be reused.
func NewReadFromMaq(rec *maqmap.Record) *Read {
	n := int(rec.Size)
	if n > maqmap.MaxReadLen-1 {
		// The last byte of the sequence field carries the single-end mapq.
		n = maqmap.MaxReadLen - 1
	}
	bases := make([]byte, n)
	copy(bases, rec.Seq[:n])
	return &Read{
		SeqID:   int(rec.SeqID),
		Begin:   PosType(rec.Pos >> 1),
		MapQ:    int(rec.MapQual),
		Reverse: rec.Pos&1 == 1,
		Bases:   bases,
		Name:    rec.Name,
		Valid:   true,
	}
}
