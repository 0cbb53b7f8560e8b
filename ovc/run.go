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
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/varsupport/encoding/maqmap"
	"github.com/grailbio/varsupport/interval"
	"github.com/grailbio/varsupport/reference"
)

// namedReadSource is a ReadSource that knows its reference-name table.
type namedReadSource interface {
	ReadSource
	RefNames() []string
}

// readFormat returns "maq" or "bam" for path.
func readFormat(path, format string) (string, error) {
	switch format {
	case "maq", "bam":
		return format, nil
	case "":
		if strings.HasSuffix(path, ".bam") {
			return "bam", nil
		}
		return "maq", nil
	}
	return "", errors.E(errors.Invalid, "unknown read format", format)
}

// openReads opens the read stream at path.  The returned closer must be
// called once the stream is no longer needed.
func openReads(ctx context.Context, path, format string) (namedReadSource, func() error, error) {
	format, err := readFormat(path, format)
	if err != nil {
		return nil, nil, err
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, path)
	}
	closeFile := func() error { return f.Close(ctx) }
	var (
		src    namedReadSource
		closer io.Closer
	)
	switch format {
	case "bam":
		var r *bam.Reader
		if r, err = bam.NewReader(f.Reader(ctx), 1); err == nil {
			src, closer = NewBAMSource(r), r
		}
	default:
		var r *maqmap.Reader
		if r, err = maqmap.NewReader(f.Reader(ctx)); err == nil {
			src, closer = NewMaqSource(r), r
		}
	}
	if err != nil {
		_ = closeFile()
		return nil, nil, errors.E(err, path)
	}
	return src, func() error {
		err := closer.Close()
		if e := closeFile(); e != nil && err == nil {
			err = e
		}
		return err
	}, nil
}

// openVariants opens the (possibly compressed) variant list at path.
func openVariants(ctx context.Context, path string) (io.Reader, func() error, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, path)
	}
	r, _ := compress.NewReader(f.Reader(ctx))
	return r, func() error {
		err := r.Close()
		if e := f.Close(ctx); e != nil && err == nil {
			err = e
		}
		return err
	}, nil
}

// Run joins the reads at readPath against the variant list at variantPath
// and writes result rows to outPath ("" or "-" for stdout).
func Run(ctx context.Context, readPath, variantPath, outPath string, opts Opts) (err error) {
	reads, closeReads, err := openReads(ctx, readPath, opts.Format)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeReads(); e != nil && err == nil {
			err = e
		}
	}()
	refNames := reads.RefNames()

	var targets *interval.TargetSet
	if opts.BedPath != "" {
		if targets, err = interval.NewTargetSetFromPath(ctx, opts.BedPath, interval.NewTargetOpts{RefNames: refNames}); err != nil {
			return err
		}
		log.Printf("ovc.Run: BED loaded: %d target base(s) from %s", targets.NBase(), opts.BedPath)
	}

	vr, closeVariants, err := openVariants(ctx, variantPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeVariants(); e != nil && err == nil {
			err = e
		}
	}()
	variants := NewVariantReader(vr, refNames, opts.OneBasedVariants, targets)

	var ref reference.Lookup
	if opts.RefPath != "" {
		if ref, err = reference.Open(ctx, opts.RefPath); err != nil {
			return err
		}
		defer func() {
			if e := ref.Close(); e != nil && err == nil {
				err = e
			}
		}()
	}

	out, err := createOutput(ctx, outPath)
	if err != nil {
		return err
	}
	summary, joinErr := Join(reads, variants, refNames, ref, out, opts)
	if e := out.Close(); e != nil && joinErr == nil {
		joinErr = e
	}
	summary.VariantsRead = variants.NRead()
	summary.VariantsDropped = variants.NDropped()
	summary.VariantsOffTarget = variants.NOffTarget()
	log.Printf("ovc.Run: %d chromosome(s), %d variant line(s) read, %d dropped, %d off target, %d row(s) written, %d skipped",
		summary.Chromosomes, summary.VariantsRead, summary.VariantsDropped, summary.VariantsOffTarget,
		summary.RowsWritten, summary.RowsSkipped)
	return joinErr
}
