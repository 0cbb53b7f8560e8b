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

/*
bio-varsupport reports read support for a list of candidate variants.  Given a
coordinate-sorted Maq .map (or BAM) file and a variant list sorted the same
way, it emits one tab-separated row per variant covered by at least one read:

  RAW_LINE  RC(A,C,G,T)  URC(A,C,G,T)  URSC(A,C,G,T)  REF  REF_BLOCK  ALT_BLOCK...

RC is the raw depth of each base at the variant's first position, URC the
number of distinct read-start clusters (reads starting within -dedup-tol of
each other collapse), and URSC the number of distinct read names.  Each block
is RC,URC,URSC,Q,MQ for one base, Q and MQ being the mean and max base
quality.  ALT blocks follow the variant's IUPAC code.

Variant-list lines have the form

  name begin end ref_base iupac_code

where name must match a reference name in the read file's header.

Sample usage:
bio-varsupport \
    -mapq 20 \
    -ref ref.bfa \
    -out support.tsv.gz \
    reads.map \
    variants.txt
*/
package main
