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

// Package allele defines the 2-bit base enum shared by reads and variants,
// and decodes IUPAC ambiguity codes into concrete base sets.
package allele

import (
	"github.com/pkg/errors"
)

// These constants are also the natural values for A/C/G/T in the packed 2-bit
// representation used by Maq (base<<6 | qual) and by the .bfa reference
// format.

const (
	// BaseA represents an A base.
	BaseA byte = iota
	// BaseC represents an C base.
	BaseC
	// BaseG represents an G base.
	BaseG
	// BaseT represents an T base.
	BaseT
	// BaseX is a catch-all.
	BaseX
)

// NBase is the number of regular base types.
const NBase = 4

// EnumToASCIITable is the A/C/G/T/X -> ASCII mapping, with X rendered as 'N'.
var EnumToASCIITable = [...]byte{'A', 'C', 'G', 'T', 'N'}

// ErrUnknownAlleleCode is returned by Decode for characters outside the 15
// IUPAC codes.
var ErrUnknownAlleleCode = errors.New("unknown allele code")

// ambiguityTable maps each IUPAC code to the genotype it denotes.  Unambiguous
// codes are homozygous and therefore list their base twice.
var ambiguityTable = [256][]byte{
	'A': {BaseA, BaseA},
	'C': {BaseC, BaseC},
	'G': {BaseG, BaseG},
	'T': {BaseT, BaseT},
	'M': {BaseA, BaseC},
	'K': {BaseG, BaseT},
	'Y': {BaseC, BaseT},
	'R': {BaseA, BaseG},
	'W': {BaseA, BaseT},
	'S': {BaseG, BaseC},
	'D': {BaseA, BaseG, BaseT},
	'B': {BaseC, BaseG, BaseT},
	'H': {BaseA, BaseC, BaseT},
	'V': {BaseA, BaseC, BaseG},
	'N': {BaseA, BaseC, BaseG, BaseT},
}

// Decode returns the ordered base set denoted by an upper-case IUPAC
// ambiguity code: 2 entries for A/C/G/T/M/K/Y/R/W/S, 3 for D/B/H/V, 4 for N.
// The returned slice is shared and must not be modified.
func Decode(code byte) ([]byte, error) {
	if bases := ambiguityTable[code]; bases != nil {
		return bases, nil
	}
	return nil, errors.Wrapf(ErrUnknownAlleleCode, "%q", code)
}

// ASCIIToEnum maps a (case-insensitive) A/C/G/T character to its enum value,
// and everything else to BaseX.
func ASCIIToEnum(c byte) byte {
	switch c | 0x20 {
	case 'a':
		return BaseA
	case 'c':
		return BaseC
	case 'g':
		return BaseG
	case 't':
		return BaseT
	}
	return BaseX
}
