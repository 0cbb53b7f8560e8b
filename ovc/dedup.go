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
	"github.com/biogo/store/llrb"
	farm "github.com/dgryski/go-farm"
)

// startKey is a read start position in the dedup tree.
type startKey PosType

// Compare implements llrb.Comparable.
func (k startKey) Compare(c llrb.Comparable) int {
	k2 := c.(startKey)
	switch {
	case k < k2:
		return -1
	case k > k2:
		return 1
	}
	return 0
}

// DedupCount returns the number of start-position clusters among reads.  Two
// reads share a cluster when their starts are at most tolerance apart, so a
// cluster is a maximal run of distinct starts whose neighbouring gaps are all
// within tolerance.  The result depends only on the multiset of starts.
func DedupCount(reads []*Read, tolerance int) int {
	if len(reads) == 0 {
		return 0
	}
	var starts llrb.Tree
	for _, r := range reads {
		starts.Insert(startKey(r.Begin))
	}
	n := 0
	var prev PosType
	starts.Do(func(c llrb.Comparable) bool {
		start := PosType(c.(startKey))
		if n == 0 || int64(start)-int64(prev) > int64(tolerance) {
			n++
		}
		prev = start
		return false
	})
	return n
}

// LegacyUniqueCount returns the number of distinct read names among reads.
// Names are bucketed by 64-bit fingerprint and compared exactly within a
// bucket.
func LegacyUniqueCount(reads []*Read) int {
	switch len(reads) {
	case 0:
		return 0
	case 1:
		return 1
	}
	return countDistinctNames(reads, nameFingerprint)
}

func nameFingerprint(name string) uint64 {
	return farm.Hash64([]byte(name))
}

func countDistinctNames(reads []*Read, hash func(string) uint64) int {
	buckets := make(map[uint64][]string, len(reads))
	n := 0
	for _, r := range reads {
		h := hash(r.Name)
		if containsName(buckets[h], r.Name) {
			continue
		}
		buckets[h] = append(buckets[h], r.Name)
		n++
	}
	return n
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
