package maqmap

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Reader decodes a map stream.
type Reader struct {
	gz     *gzip.Reader
	r      *bufio.Reader
	header Header
	buf    [RecordSize]byte
}

// NewReader reads the header from r and returns a Reader positioned at the
// first record.  Both gzipped (the normal case) and raw streams are accepted.
func NewReader(r io.Reader) (*Reader, error) {
	mr := &Reader{}
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		if mr.gz, err = gzip.NewReader(br); err != nil {
			return nil, errors.Wrap(err, "maqmap: opening gzip stream")
		}
		br = bufio.NewReader(mr.gz)
	}
	mr.r = br
	var err error
	if mr.header, err = readHeader(br); err != nil {
		return nil, err
	}
	return mr, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Read decodes the next record.  It returns io.EOF at a clean end of stream,
// and ErrTruncatedReadRecord when the stream ends partway through a record.
func (r *Reader) Read() (*Record, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	if err == io.ErrUnexpectedEOF {
		return nil, errors.Wrapf(ErrTruncatedReadRecord, "%d of %d bytes", n, RecordSize)
	}
	if err != nil {
		return nil, err
	}
	rec := &Record{}
	rec.Unmarshal(r.buf[:])
	return rec, nil
}

// Close releases the gzip decoder, if any.  It does not close the underlying
// reader.
func (r *Reader) Close() error {
	if r.gz != nil {
		return r.gz.Close()
	}
	return nil
}
