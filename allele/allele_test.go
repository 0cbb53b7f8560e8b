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
package allele

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		code     byte
		expected []byte
	}{
		{'A', []byte{BaseA, BaseA}},
		{'C', []byte{BaseC, BaseC}},
		{'G', []byte{BaseG, BaseG}},
		{'T', []byte{BaseT, BaseT}},
		{'M', []byte{BaseA, BaseC}},
		{'K', []byte{BaseG, BaseT}},
		{'Y', []byte{BaseC, BaseT}},
		{'R', []byte{BaseA, BaseG}},
		{'W', []byte{BaseA, BaseT}},
		{'S', []byte{BaseG, BaseC}},
		{'D', []byte{BaseA, BaseG, BaseT}},
		{'B', []byte{BaseC, BaseG, BaseT}},
		{'H', []byte{BaseA, BaseC, BaseT}},
		{'V', []byte{BaseA, BaseC, BaseG}},
		{'N', []byte{BaseA, BaseC, BaseG, BaseT}},
	}
	for _, tt := range tests {
		bases, err := Decode(tt.code)
		assert.NoError(t, err)
		expect.EQ(t, bases, tt.expected, "code %c", tt.code)
	}
}

func TestDecodeCardinality(t *testing.T) {
	nValid := 0
	for c := 0; c < 256; c++ {
		bases, err := Decode(byte(c))
		if err != nil {
			expect.EQ(t, errors.Cause(err), ErrUnknownAlleleCode)
			expect.Nil(t, bases)
			continue
		}
		nValid++
		assert.True(t, len(bases) >= 2 && len(bases) <= 4, "code %c", c)
		for _, b := range bases {
			expect.True(t, b < NBase)
		}
	}
	expect.EQ(t, nValid, 15)
	// Lower case and gap characters are not codes.
	for _, c := range []byte{'a', 'n', '-', '.', 'X', 'U', 0} {
		_, err := Decode(c)
		expect.NotNil(t, err, "code %q", c)
	}
}

func TestASCIIToEnum(t *testing.T) {
	expect.EQ(t, ASCIIToEnum('A'), BaseA)
	expect.EQ(t, ASCIIToEnum('c'), BaseC)
	expect.EQ(t, ASCIIToEnum('G'), BaseG)
	expect.EQ(t, ASCIIToEnum('t'), BaseT)
	expect.EQ(t, ASCIIToEnum('N'), BaseX)
	expect.EQ(t, ASCIIToEnum('*'), BaseX)
	for b := byte(0); b < NBase; b++ {
		expect.EQ(t, ASCIIToEnum(EnumToASCIITable[b]), b)
	}
}
