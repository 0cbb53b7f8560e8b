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
	"bufio"
	"io"
	"strconv"

	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/varsupport/interval"
	"github.com/pkg/errors"
)

// Variant is one candidate site from the variant list.
type Variant struct {
	SeqID int
	// Begin and End are 0-based and inclusive.
	Begin, End PosType
	// RefAllele is the reference base character as it appears in the list.
	RefAllele byte
	// Code is the IUPAC code for the candidate genotype.
	Code byte
	// RawLine is the input line with its trailing newline removed.
	RawLine string
	// LineNum is the 1-based line number in the variant list.
	LineNum int
}

const nVariantField = 5

// ParseVariant parses one "name begin end ref code" line.  nameToID resolves
// the sequence name.  Coordinates are converted to 0-based if oneBased is set.
// Errors wrap ErrMalformedVariantLine.
func ParseVariant(line []byte, nameToID map[string]int, oneBased bool) (*Variant, error) {
	var tokens [nVariantField][]byte
	if n := interval.Tokenize(tokens[:], line); n != nVariantField {
		return nil, errors.Wrapf(ErrMalformedVariantLine, "%d field(s), want %d", n, nVariantField)
	}
	seqID, ok := nameToID[string(tokens[0])]
	if !ok {
		return nil, errors.Wrapf(ErrMalformedVariantLine, "unknown sequence %q", tokens[0])
	}
	begin, err := strconv.ParseInt(gunsafe.BytesToString(tokens[1]), 10, 32)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedVariantLine, "begin %q", tokens[1])
	}
	end, err := strconv.ParseInt(gunsafe.BytesToString(tokens[2]), 10, 32)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedVariantLine, "end %q", tokens[2])
	}
	if oneBased {
		begin--
		end--
	}
	if begin < 0 || end < begin {
		return nil, errors.Wrapf(ErrMalformedVariantLine, "bad interval [%d, %d]", begin, end)
	}
	if len(tokens[3]) != 1 || len(tokens[4]) != 1 {
		return nil, errors.Wrapf(ErrMalformedVariantLine, "allele fields %q %q must be single characters", tokens[3], tokens[4])
	}
	return &Variant{
		SeqID:     seqID,
		Begin:     PosType(begin),
		End:       PosType(end),
		RefAllele: tokens[3][0],
		Code:      tokens[4][0],
		RawLine:   string(line),
	}, nil
}

// VariantReader is a VariantSource over a variant-list text stream.  Lines
// that fail to parse, and lines outside the optional target set, are dropped
// and counted.
type VariantReader struct {
	scanner  *bufio.Scanner
	nameToID map[string]int
	oneBased bool
	targets  *interval.TargetSet

	lineNum    int
	nRead      int
	nDropped   int
	nOffTarget int
}

// NewVariantReader returns a reader over r.  refNames is the read stream's
// reference-name table; sequence IDs are indices into it.  targets may be
// nil.
func NewVariantReader(r io.Reader, refNames []string, oneBased bool, targets *interval.TargetSet) *VariantReader {
	nameToID := make(map[string]int, len(refNames))
	for i, name := range refNames {
		if _, ok := nameToID[name]; !ok {
			nameToID[name] = i
		}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &VariantReader{
		scanner:  scanner,
		nameToID: nameToID,
		oneBased: oneBased,
		targets:  targets,
	}
}

// Next implements VariantSource.  It returns io.EOF at the end of the list.
func (vr *VariantReader) Next() (*Variant, error) {
	for vr.scanner.Scan() {
		vr.lineNum++
		line := vr.scanner.Bytes()
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		if len(line) == 0 {
			continue
		}
		vr.nRead++
		v, err := ParseVariant(line, vr.nameToID, vr.oneBased)
		if err != nil {
			vr.nDropped++
			log.Printf("ovc.VariantReader: line %d: %v", vr.lineNum, err)
			continue
		}
		if vr.targets != nil && !vr.targets.ContainsByID(v.SeqID, v.Begin) {
			vr.nOffTarget++
			log.Debug.Printf("ovc.VariantReader: line %d outside targets", vr.lineNum)
			continue
		}
		v.LineNum = vr.lineNum
		return v, nil
	}
	if err := vr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// NRead returns the number of non-empty lines seen so far.
func (vr *VariantReader) NRead() int { return vr.nRead }

// NDropped returns the number of malformed lines dropped so far.
func (vr *VariantReader) NDropped() int { return vr.nDropped }

// NOffTarget returns the number of lines skipped by the target filter.
func (vr *VariantReader) NOffTarget() int { return vr.nOffTarget }
