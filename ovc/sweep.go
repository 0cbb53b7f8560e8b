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

// forEachOverlap sweeps one chromosome.  nextVariant and nextRead return the
// chromosome's records in order; an error satisfying isEndOfChrom ends the
// respective stream.  For every variant whose [Begin, End] intersects at
// least one valid read in the window, fn is called with the variant and the
// window contents.  With reportUncovered, fn is called for every variant.
//
// Before fn runs, the window holds every pulled read with End >= v.Begin, and
// possibly one trailing read with Begin > v.End.  Reads evicted for one
// variant are never shown to a later one.
func forEachOverlap(
	nextVariant func() (*Variant, error),
	nextRead func() (*Read, error),
	w *Window,
	reportUncovered bool,
	fn func(v *Variant, window []*Read) error) error {
	readsDone := false
	for {
		v, err := nextVariant()
		if err != nil {
			if isEndOfChrom(err) {
				return nil
			}
			return err
		}
		w.EvictBefore(v.Begin)
		for !readsDone {
			if last := w.Last(); last != nil && last.Begin > v.End {
				break
			}
			r, err := nextRead()
			if err != nil {
				if isEndOfChrom(err) {
					readsDone = true
					break
				}
				return err
			}
			if r.End() < v.Begin {
				// Later variants begin no earlier than v.
				continue
			}
			w.Append(r)
		}
		window := w.Snapshot()
		if !reportUncovered && !anyOverlap(window, v) {
			continue
		}
		if err := fn(v, window); err != nil {
			return err
		}
	}
}

func anyOverlap(reads []*Read, v *Variant) bool {
	for _, r := range reads {
		if r.Valid && r.Begin <= v.End && r.End() >= v.Begin {
			return true
		}
	}
	return false
}
