// Package maqmap reads and writes Maq ".map" alignment files.
//
// A map file is a gzip stream holding a header followed by fixed-size,
// little-endian records sorted by (seqid, pos).  Only the "new" layout (format
// -1, 128-byte sequence field) is supported.
package maqmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const (
	// FormatNew is the only supported header format tag.
	FormatNew = -1
	// MaxReadLen is the size of the packed sequence field.  The last byte holds
	// the single-end mapping quality rather than a base.
	MaxReadLen = 128
	// MaxNameLen is the size of the NUL-padded read-name field.
	MaxNameLen = 36
	// RecordSize is the encoded size of one Record.
	RecordSize = MaxReadLen + 8 + 12 + MaxNameLen

	maxRefNameLen = 1 << 16
)

// Field offsets within an encoded record.
const (
	offSize    = MaxReadLen
	offMapQual = offSize + 1
	offInfo1   = offSize + 2
	offInfo2   = offSize + 3
	offC       = offSize + 4
	offFlag    = offSize + 6
	offAltQual = offSize + 7
	offSeqID   = offSize + 8
	offPos     = offSize + 12
	offDist    = offSize + 16
	offName    = offSize + 20
)

// ErrTruncatedReadRecord is returned when the stream ends partway through a
// record.
var ErrTruncatedReadRecord = errors.New("maqmap: truncated record")

// Header is the map-file header.
type Header struct {
	// RefNames lists the reference sequences; a record's SeqID indexes it.
	RefNames []string
	// NMappedReads is the record count claimed by the header.
	NMappedReads uint64
}

// Record is one decoded alignment.
type Record struct {
	// Seq holds one byte per base: base<<6 | qual, where base is the 2-bit
	// A/C/G/T code and qual the 6-bit base quality.  0 denotes an N.
	// Seq[MaxReadLen-1] is not a base.
	Seq [MaxReadLen]byte
	// Size is the number of bases in Seq.
	Size    uint8
	MapQual uint8
	Info1   uint8
	Info2   uint8
	C       [2]uint8
	Flag    uint8
	AltQual uint8
	// SeqID indexes Header.RefNames.
	SeqID uint32
	// Pos is the 0-based leftmost position shifted left by one, with the strand
	// in the low bit.
	Pos  uint32
	Dist int32
	Name string
}

// Unmarshal decodes a RecordSize-byte buffer into r.
func (r *Record) Unmarshal(buf []byte) {
	_ = buf[RecordSize-1]
	copy(r.Seq[:], buf[:MaxReadLen])
	r.Size = buf[offSize]
	r.MapQual = buf[offMapQual]
	r.Info1 = buf[offInfo1]
	r.Info2 = buf[offInfo2]
	r.C[0] = buf[offC]
	r.C[1] = buf[offC+1]
	r.Flag = buf[offFlag]
	r.AltQual = buf[offAltQual]
	r.SeqID = binary.LittleEndian.Uint32(buf[offSeqID:])
	r.Pos = binary.LittleEndian.Uint32(buf[offPos:])
	r.Dist = int32(binary.LittleEndian.Uint32(buf[offDist:]))
	name := buf[offName : offName+MaxNameLen]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	r.Name = string(name)
}

// Marshal encodes r into a RecordSize-byte buffer.  Names longer than
// MaxNameLen-1 bytes are truncated.
func (r *Record) Marshal(buf []byte) {
	_ = buf[RecordSize-1]
	copy(buf[:MaxReadLen], r.Seq[:])
	buf[offSize] = r.Size
	buf[offMapQual] = r.MapQual
	buf[offInfo1] = r.Info1
	buf[offInfo2] = r.Info2
	buf[offC] = r.C[0]
	buf[offC+1] = r.C[1]
	buf[offFlag] = r.Flag
	buf[offAltQual] = r.AltQual
	binary.LittleEndian.PutUint32(buf[offSeqID:], r.SeqID)
	binary.LittleEndian.PutUint32(buf[offPos:], r.Pos)
	binary.LittleEndian.PutUint32(buf[offDist:], uint32(r.Dist))
	name := buf[offName : offName+MaxNameLen]
	for i := range name {
		name[i] = 0
	}
	copy(name[:MaxNameLen-1], r.Name)
}

func readHeader(r io.Reader) (h Header, err error) {
	var format, nRef int32
	if err = binary.Read(r, binary.LittleEndian, &format); err != nil {
		return h, errors.Wrap(err, "maqmap: reading format")
	}
	if format != FormatNew {
		if format > 0 {
			return h, fmt.Errorf("maqmap: obsolete map format %d; convert with 'maq mapass2maq'", format)
		}
		return h, fmt.Errorf("maqmap: unknown map format %d", format)
	}
	if err = binary.Read(r, binary.LittleEndian, &nRef); err != nil {
		return h, errors.Wrap(err, "maqmap: reading n_ref")
	}
	if nRef < 0 {
		return h, fmt.Errorf("maqmap: negative n_ref %d", nRef)
	}
	h.RefNames = make([]string, nRef)
	for i := range h.RefNames {
		var nameLen int32
		if err = binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return h, errors.Wrapf(err, "maqmap: reading name length of reference %d", i)
		}
		if nameLen < 0 || nameLen > maxRefNameLen {
			return h, fmt.Errorf("maqmap: bad name length %d for reference %d", nameLen, i)
		}
		name := make([]byte, nameLen)
		if _, err = io.ReadFull(r, name); err != nil {
			return h, errors.Wrapf(err, "maqmap: reading name of reference %d", i)
		}
		h.RefNames[i] = string(bytes.TrimRight(name, "\x00"))
	}
	if err = binary.Read(r, binary.LittleEndian, &h.NMappedReads); err != nil {
		return h, errors.Wrap(err, "maqmap: reading n_mapped_reads")
	}
	return h, nil
}

func writeHeader(w io.Writer, h Header) error {
	if err := binary.Write(w, binary.LittleEndian, int32(FormatNew)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(h.RefNames))); err != nil {
		return err
	}
	for _, name := range h.RefNames {
		if err := binary.Write(w, binary.LittleEndian, int32(len(name)+1)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, name); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, h.NMappedReads)
}
