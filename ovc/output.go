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
	"context"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/varsupport/allele"
)

// RowSink receives one result row per reported variant.  alleles is the
// decoded variant code.
type RowSink interface {
	WriteRow(v *Variant, refBase byte, alleles []byte, stats *VariantStats) error
}

// RowWriter renders rows as tab-separated text:
//
//   RAW_LINE  RC(A,C,G,T)  URC(A,C,G,T)  URSC(A,C,G,T)  REF  REF_BLOCK  ALT_BLOCK...
//
// where RC is raw depth, URC dedup depth, URSC legacy unique depth, and each
// block is RC,URC,URSC,Q,MQ for one base (Q is the mean base quality,
// truncated).  REF_BLOCK is for the variant's reference allele; there is one
// ALT_BLOCK per entry of the decoded variant code.
type RowWriter struct {
	w *tsv.Writer
}

// NewRowWriter returns a RowWriter on top of w.
func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{w: tsv.NewWriter(w)}
}

func (rw *RowWriter) writeBlock(s *AlleleStats) {
	rw.w.WriteCsvUint32(uint32(s.RawDepth))
	rw.w.WriteCsvUint32(uint32(s.DedupDepth))
	rw.w.WriteCsvUint32(uint32(s.LegacyUniqueDepth))
	rw.w.WriteCsvUint32(uint32(s.MeanQuality))
	rw.w.WriteCsvUint32(uint32(s.MaxQuality))
	rw.w.EndCsv()
}

// WriteRow implements RowSink.
func (rw *RowWriter) WriteRow(v *Variant, refBase byte, alleles []byte, stats *VariantStats) error {
	w := rw.w
	w.WriteString(v.RawLine)
	for b := range stats {
		w.WriteCsvUint32(uint32(stats[b].RawDepth))
	}
	w.EndCsv()
	for b := range stats {
		w.WriteCsvUint32(uint32(stats[b].DedupDepth))
	}
	w.EndCsv()
	for b := range stats {
		w.WriteCsvUint32(uint32(stats[b].LegacyUniqueDepth))
	}
	w.EndCsv()
	w.WriteByte(refBase)
	if ref := allele.ASCIIToEnum(v.RefAllele); ref < allele.NBase {
		rw.writeBlock(&stats[ref])
	} else {
		rw.writeBlock(&AlleleStats{})
	}
	for _, b := range alleles {
		rw.writeBlock(&stats[b])
	}
	return w.EndLine()
}

// Flush writes out buffered rows.
func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}

// outputFile is a RowWriter bound to a destination path.
type outputFile struct {
	*RowWriter
	ctx  context.Context
	f    file.File
	bgzf *bgzf.Writer
}

// createOutput opens the row destination.  "" and "-" mean stdout; a ".gz"
// suffix selects BGZF compression.
func createOutput(ctx context.Context, path string) (*outputFile, error) {
	if path == "" || path == "-" {
		return &outputFile{RowWriter: NewRowWriter(os.Stdout), ctx: ctx}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "creating", path)
	}
	out := &outputFile{ctx: ctx, f: f}
	if strings.HasSuffix(path, ".gz") {
		out.bgzf = bgzf.NewWriter(f.Writer(ctx), 1)
		out.RowWriter = NewRowWriter(out.bgzf)
	} else {
		out.RowWriter = NewRowWriter(f.Writer(ctx))
	}
	return out, nil
}

// Close flushes and closes the destination.
func (o *outputFile) Close() (err error) {
	err = o.Flush()
	if o.bgzf != nil {
		if e := o.bgzf.Close(); e != nil && err == nil {
			err = e
		}
	}
	if o.f != nil {
		if e := o.f.Close(o.ctx); e != nil && err == nil {
			err = errors.E(e, "closing", o.f.Name())
		}
	}
	return err
}
