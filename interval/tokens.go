package interval

import (
	"math"
	"sort"
)

// PosType is the type used to represent genomic coordinates.  int32 is wide
// enough for every format this module reads.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// SearchPosTypes returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except for PosType.
func SearchPosTypes(a []PosType, x PosType) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// expsearchPosType checks a[idx], then a[idx + 1], then a[idx + 3], then
// a[idx + 7], etc., and then uses binary search to finish the job.  It's
// usually a better choice than SearchPosTypes when queries arrive in
// nondecreasing order.
func expsearchPosType(a []PosType, x PosType, idx int) int {
	nextIncr := 1
	startIdx := idx
	endIdx := len(a)
	for idx < endIdx {
		if a[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if a[midIdx] >= x {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// Tokenize identifies up to the first len(tokens) tokens from line, returning
// the number of tokens saved.  Any (group of) characters <= ' ' is treated as
// a delimiter.  The saved tokens alias line, so they must be copied if they
// need to outlive it.
func Tokenize(tokens [][]byte, line []byte) int {
	posEnd := 0
	lineLen := len(line)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if line[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if line[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = line[pos:posEnd]
	}
	return len(tokens)
}
