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

// Package ovc joins a coordinate-sorted read stream against a sorted list of
// candidate variants, one chromosome at a time, and reports per-allele read
// support for each variant.
//
// Both inputs must already be ordered by (sequence ID, position).  The two
// streams are first aligned on a common sequence ID; then a single forward
// sweep keeps a window of reads that may overlap the current variant, and for
// each covered variant computes, for every base A/C/G/T:
//   - raw depth: reads whose base at the variant's first position matches,
//   - dedup depth: number of start-position clusters among those reads,
//   - legacy unique depth: number of distinct read names among those reads,
//   - mean and max base quality of the matching bases.
//
// Nothing is held in memory beyond the current window and, optionally, one
// reference chromosome.
package ovc
