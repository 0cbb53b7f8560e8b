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

// Window holds the reads that may overlap the current or an upcoming variant
// on one chromosome, in arrival (nondecreasing Begin) order.
//
// Reads usually share a length, so the eviction frontier is just the front
// of the buffer.  If a read ever ends before its predecessor, EvictBefore
// also filters the interior.
type Window struct {
	reads []*Read
	// head is the index of the first live read.
	head int
	// lastEnd is the largest End among appended reads.
	lastEnd PosType
	// endsSorted is true while every live read ends no earlier than its
	// predecessor.
	endsSorted bool
}

// NewWindow returns an empty window.
func NewWindow() *Window {
	return &Window{endsSorted: true}
}

// Len returns the number of reads held.
func (w *Window) Len() int {
	return len(w.reads) - w.head
}

// Last returns the most recently appended read, or nil if the window is empty.
func (w *Window) Last() *Read {
	if w.Len() == 0 {
		return nil
	}
	return w.reads[len(w.reads)-1]
}

// Append adds r at the back.  Reads must arrive in nondecreasing Begin order.
func (w *Window) Append(r *Read) {
	end := r.End()
	if w.Len() == 0 {
		w.endsSorted = true
	} else if end < w.lastEnd {
		w.endsSorted = false
	}
	if w.Len() == 0 || end > w.lastEnd {
		w.lastEnd = end
	}
	w.reads = append(w.reads, r)
}

// EvictBefore drops every read whose End is strictly less than pos.  Evicted
// reads are gone for good.
func (w *Window) EvictBefore(pos PosType) {
	for w.head < len(w.reads) && w.reads[w.head].End() < pos {
		w.reads[w.head] = nil
		w.head++
	}
	if !w.endsSorted {
		w.filterInterior(pos)
	}
	w.compact()
}

func (w *Window) filterInterior(pos PosType) {
	live := w.reads[w.head:]
	n := 0
	sorted := true
	var prevEnd PosType
	for _, r := range live {
		end := r.End()
		if end < pos {
			continue
		}
		if n > 0 && end < prevEnd {
			sorted = false
		}
		if n == 0 || end > prevEnd {
			prevEnd = end
		}
		live[n] = r
		n++
	}
	for i := n; i < len(live); i++ {
		live[i] = nil
	}
	w.reads = w.reads[:w.head+n]
	w.endsSorted = sorted
	if n > 0 {
		w.lastEnd = prevEnd
	}
}

// compact reclaims the evicted prefix once it dominates the buffer.
func (w *Window) compact() {
	if w.head == len(w.reads) {
		w.reads = w.reads[:0]
		w.head = 0
		return
	}
	if w.head > 64 && w.head > len(w.reads)/2 {
		n := copy(w.reads, w.reads[w.head:])
		for i := n; i < len(w.reads); i++ {
			w.reads[i] = nil
		}
		w.reads = w.reads[:n]
		w.head = 0
	}
}

// InvalidateLowQuality marks every held read with MapQ < cutoff invalid.  It
// is idempotent.
func (w *Window) InvalidateLowQuality(cutoff int) {
	for _, r := range w.reads[w.head:] {
		r.Invalidate(cutoff)
	}
}

// Snapshot returns the held reads in order.  The slice aliases the window and
// is only valid until the next Append or EvictBefore; callers must not modify
// it.
func (w *Window) Snapshot() []*Read {
	return w.reads[w.head:]
}

// Reset empties the window, e.g. between chromosomes.
func (w *Window) Reset() {
	for i := range w.reads {
		w.reads[i] = nil
	}
	w.reads = w.reads[:0]
	w.head = 0
	w.endsSorted = true
}
