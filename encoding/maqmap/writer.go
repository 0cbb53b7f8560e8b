package maqmap

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// Writer produces a gzipped map stream.  The caller is responsible for
// appending records in (SeqID, Pos) order.
type Writer struct {
	gz  *gzip.Writer
	buf [RecordSize]byte
}

// NewWriter writes h to w and returns a Writer for the records.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	mw := &Writer{gz: gzip.NewWriter(w)}
	if err := writeHeader(mw.gz, h); err != nil {
		return nil, err
	}
	return mw, nil
}

// Write appends one record.
func (w *Writer) Write(rec *Record) error {
	rec.Marshal(w.buf[:])
	_, err := w.gz.Write(w.buf[:])
	return err
}

// Close flushes the gzip stream.  It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.gz.Close()
}
