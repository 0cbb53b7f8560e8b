package interval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// NewTargetOpts defines behavior of the TargetSet loaders.
type NewTargetOpts struct {
	// RefNames enables ID-based lookup; RefNames[i] is the name of the
	// reference with sequence ID i.
	RefNames []string
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// TargetSet is an interval-union over a set of chromosomes.  Each
// chromosome's intervals are stored as a length-2N sequence of sorted
// endpoints, where the (0-based) start of interval k is in element [2k] and
// the end is in element [2k+1].  A position lies inside the set iff the number
// of endpoints <= it is odd.
//
// Queries are optimized for the access pattern of a coordinate-sorted sweep:
// nondecreasing positions within one chromosome at a time.
type TargetSet struct {
	// nameMap is a chromosome-keyed map with disjoint-interval-set values.
	nameMap map[string][]PosType
	// idMap is indexed by sequence ID.  Only initialized when RefNames was
	// provided.
	idMap [][]PosType
	// nBase is the total number of covered positions.
	nBase int

	// lastChrID is the ID of the most recently queried chromosome, or -1.
	lastChrID int
	// lastChrIntervals points to lastChrID's endpoints.
	lastChrIntervals []PosType
	// lastPosPlus1 is 1 plus the last queried position.
	lastPosPlus1 PosType
	// lastIdx is SearchPosTypes(lastChrIntervals, lastPosPlus1).
	lastIdx int
	// isSequential is true if all queries since the last chromosome change have
	// been in order of nondecreasing position.
	isSequential bool
}

// NBase returns the number of positions covered by the set.
func (t *TargetSet) NBase() int {
	return t.nBase
}

// ContainsByID checks whether the (0-based) position pos on the chromosome
// with the given sequence ID lies in the set.
func (t *TargetSet) ContainsByID(chrID int, pos PosType) bool {
	posPlus1 := pos + 1
	if chrID != t.lastChrID {
		t.lastChrID = chrID
		t.lastChrIntervals = nil
		if chrID >= 0 && chrID < len(t.idMap) {
			t.lastChrIntervals = t.idMap[chrID]
		}
		if t.lastChrIntervals == nil {
			return false
		}
		t.lastIdx = SearchPosTypes(t.lastChrIntervals, posPlus1)
		t.lastPosPlus1 = posPlus1
		t.isSequential = true
		return t.lastIdx&1 == 1
	}
	if t.lastChrIntervals == nil {
		return false
	}
	if t.isSequential {
		if posPlus1 >= t.lastPosPlus1 {
			t.lastIdx = expsearchPosType(t.lastChrIntervals, posPlus1, t.lastIdx)
			t.lastPosPlus1 = posPlus1
			return t.lastIdx&1 == 1
		}
		t.isSequential = false
	}
	return SearchPosTypes(t.lastChrIntervals, posPlus1)&1 == 1
}

func (t *TargetSet) nameToID(refNames []string) {
	t.idMap = make([][]PosType, len(refNames))
	for refID, refName := range refNames {
		t.idMap[refID] = t.nameMap[refName]
	}
	if nMissing := len(t.nameMap) - countNonNil(t.idMap); nMissing > 0 {
		log.Printf("interval.TargetSet: %d BED chromosome(s) absent from the read header", nMissing)
	}
}

func countNonNil(idMap [][]PosType) (n int) {
	for _, chrIntervals := range idMap {
		if chrIntervals != nil {
			n++
		}
	}
	return
}

func scanTargetSet(scanner *bufio.Scanner, opts NewTargetOpts) (t TargetSet, err error) {
	t.nameMap = make(map[string][]PosType)
	t.lastChrID = -1

	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	var tokens [3][]byte
	lineIdx := 0
	prevChr := ""
	var prevStart, prevEnd PosType
	var chrIntervals []PosType
	flushChr := func() {
		if prevEnd > prevStart {
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
		}
		t.nameMap[prevChr] = chrIntervals
	}
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := Tokenize(tokens[:], curLine)
		if nToken == 0 || curLine[0] == '#' {
			continue
		}
		if nToken != 3 {
			err = fmt.Errorf("interval.scanTargetSet: line %d has fewer tokens than expected", lineIdx)
			return
		}
		var parsedStart, parsedEnd int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = fmt.Errorf("interval.scanTargetSet: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
			err = fmt.Errorf("interval.scanTargetSet: invalid coordinate pair on line %d", lineIdx)
			return
		}
		start := PosType(parsedStart)
		end := PosType(parsedEnd)
		if prevChr != gunsafe.BytesToString(tokens[0]) {
			if prevChr != "" {
				flushChr()
			}
			// tokens[0] aliases the scanner buffer; the map key needs its own copy.
			prevChr = string(tokens[0])
			if _, found := t.nameMap[prevChr]; found {
				err = fmt.Errorf("interval.scanTargetSet: unsorted input (split chromosome %s)", prevChr)
				return
			}
			chrIntervals = []PosType{}
			prevStart = start
			prevEnd = end
			t.nBase += int(end - start)
			continue
		}
		if end == start {
			continue
		}
		if start > prevEnd {
			if prevEnd > prevStart {
				chrIntervals = append(chrIntervals, prevStart, prevEnd)
			}
			prevStart = start
			prevEnd = end
			t.nBase += int(end - start)
			continue
		}
		if start < prevStart {
			err = fmt.Errorf("interval.scanTargetSet: unsorted input on line %d", lineIdx)
			return
		}
		if end > prevEnd {
			t.nBase += int(end - prevEnd)
			prevEnd = end
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if prevChr != "" {
		flushChr()
	}
	return
}

// NewTargetSet loads the intervals from a sorted BED, merging touching and
// overlapping intervals and eliminating empty ones in the process.
func NewTargetSet(reader io.Reader, opts NewTargetOpts) (t *TargetSet, err error) {
	scanner := bufio.NewScanner(reader)
	var ts TargetSet
	if ts, err = scanTargetSet(scanner, opts); err != nil {
		return
	}
	if opts.RefNames != nil {
		ts.nameToID(opts.RefNames)
	}
	log.Printf("BED loaded, %d base(s) covered.", ts.nBase)
	return &ts, nil
}

// NewTargetSetFromPath is a wrapper for NewTargetSet that takes a path
// instead of an io.Reader.  Gzipped BEDs are recognized by their extension.
func NewTargetSetFromPath(ctx context.Context, path string, opts NewTargetOpts) (t *TargetSet, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, path)
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, path)
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		reader = gz
	}
	return NewTargetSet(reader, opts)
}
