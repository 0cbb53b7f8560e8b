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

// Package reference looks up single reference bases by sequence ID and
// position, keeping at most one chromosome in memory at a time.
package reference

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/varsupport/encoding/bfa"
	"github.com/grailbio/varsupport/encoding/fasta"
	"github.com/grailbio/varsupport/interval"
	perrors "github.com/pkg/errors"
)

// ErrReferenceSequenceNotFound is logged when a sequence is absent from the
// reference store.
var ErrReferenceSequenceNotFound = perrors.New("reference sequence not found")

// Lookup returns reference bases.
type Lookup interface {
	// Base returns the ASCII base at 0-based position pos of the sequence with
	// the given ID and name, or 'N' if the sequence or position is unknown.
	Base(seqID int, name string, pos interval.PosType) byte
	// Close releases the backing store.
	Close() error
}

// Opener (re)opens a packed reference stream from the beginning.
type Opener func() (io.ReadCloser, error)

// PackedCache is a Lookup over a .bfa stream.  It caches the most recently
// requested chromosome, and evicts it whenever a different sequence ID is
// requested.  Loading is a forward scan through the stream; if the requested
// name lies behind the cursor, the stream is reopened and scanned once more
// from the beginning.
type PackedCache struct {
	open Opener
	rc   io.ReadCloser
	rd   *bfa.Reader

	seqID int
	seq   *bfa.Seq
	// missing holds sequences already reported as not found.
	missing map[string]bool
}

// NewPackedCache returns a PackedCache reading from open.  Nothing is read
// until the first Base call.
func NewPackedCache(open Opener) *PackedCache {
	return &PackedCache{
		open:    open,
		seqID:   -1,
		missing: make(map[string]bool),
	}
}

// Base implements Lookup.Base.
func (c *PackedCache) Base(seqID int, name string, pos interval.PosType) byte {
	if seqID != c.seqID {
		c.seq = nil
		c.seqID = seqID
		if err := c.load(name); err != nil {
			if !c.missing[name] {
				c.missing[name] = true
				log.Printf("reference.PackedCache: %v", err)
			}
			return 'N'
		}
	}
	if c.seq == nil {
		return 'N'
	}
	return c.seq.Base(int(pos))
}

func (c *PackedCache) load(name string) error {
	for attempt := 0; attempt < 2; attempt++ {
		if c.rd == nil || attempt > 0 {
			if err := c.reopen(); err != nil {
				return err
			}
		}
		s, err := c.rd.Skip(name)
		if err == nil {
			c.seq = s
			return nil
		}
		if err != io.EOF {
			return err
		}
	}
	return perrors.Wrapf(ErrReferenceSequenceNotFound, "%s", name)
}

func (c *PackedCache) reopen() error {
	if c.rc != nil {
		if err := c.rc.Close(); err != nil {
			return err
		}
		c.rc = nil
	}
	rc, err := c.open()
	if err != nil {
		return err
	}
	c.rc = rc
	c.rd = bfa.NewReader(rc)
	return nil
}

// Close implements Lookup.Close.
func (c *PackedCache) Close() error {
	c.seq = nil
	if c.rc == nil {
		return nil
	}
	err := c.rc.Close()
	c.rc = nil
	c.rd = nil
	return err
}

type fastaLookup struct {
	fa      fasta.Fasta
	missing map[string]bool
}

// NewFastaLookup returns a Lookup over an in-memory FASTA.
func NewFastaLookup(fa fasta.Fasta) Lookup {
	return &fastaLookup{fa: fa, missing: make(map[string]bool)}
}

func (l *fastaLookup) Base(seqID int, name string, pos interval.PosType) byte {
	if _, err := l.fa.Len(name); err != nil {
		if !l.missing[name] {
			l.missing[name] = true
			log.Printf("reference.fastaLookup: %v", perrors.Wrapf(ErrReferenceSequenceNotFound, "%s", name))
		}
		return 'N'
	}
	if pos < 0 {
		return 'N'
	}
	b, err := l.fa.Base(name, uint64(pos))
	if err != nil {
		return 'N'
	}
	return b
}

func (l *fastaLookup) Close() error {
	return nil
}

type fileReadCloser struct {
	ctx context.Context
	f   file.File
	io.Reader
}

func (f *fileReadCloser) Close() error {
	return f.f.Close(f.ctx)
}

// Open returns a Lookup for path.  Paths ending in ".bfa" are read through a
// PackedCache; anything else is loaded as a (possibly compressed) FASTA.
func Open(ctx context.Context, path string) (Lookup, error) {
	if strings.HasSuffix(path, ".bfa") {
		return NewPackedCache(func() (io.ReadCloser, error) {
			f, err := file.Open(ctx, path)
			if err != nil {
				return nil, errors.E(err, path)
			}
			return &fileReadCloser{ctx: ctx, f: f, Reader: f.Reader(ctx)}, nil
		}), nil
	}
	fa, err := loadFasta(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Printf("reference.Open: loaded %d sequence(s) from %s", len(fa.SeqNames()), path)
	return NewFastaLookup(fa), nil
}

func loadFasta(ctx context.Context, path string) (fa fasta.Fasta, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, path)
	}
	defer func() {
		if e := infile.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader, _ := compress.NewReader(infile.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return fasta.New(reader)
}
