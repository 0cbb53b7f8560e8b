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

import "github.com/pkg/errors"

var (
	// ErrMalformedVariantLine is reported, per line, for variant-list records
	// that can't be parsed or that name an unknown sequence.  Such lines are
	// dropped.
	ErrMalformedVariantLine = errors.New("malformed variant line")
	// ErrSequenceIDMismatch is returned by a chromosome-bound stream view when
	// the next record belongs to a different sequence.  The record is pushed
	// back, and the sweep treats the error as end of chromosome.
	ErrSequenceIDMismatch = errors.New("sequence ID mismatch")
	// ErrSynchronizationExhausted means the streams can't be aligned on any
	// further common sequence ID.
	ErrSynchronizationExhausted = errors.New("synchronization exhausted")
	// ErrNoCommonSequence means synchronization was exhausted before any
	// chromosome was processed.
	ErrNoCommonSequence = errors.New("no common sequence between reads and variants")
)
