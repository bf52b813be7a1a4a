// Package binrec frames and decodes the binary journal record stream
// produced by fiscal printers
//
// Each record starts with a 6-byte header: reserved uint16, type uint16 and
// size uint16, all big-endian. The size includes the header itself. A size
// below 6 or an incomplete trailing record ends framing silently, since
// journals may be captured mid-write
package binrec

import (
	"encoding/binary"
	"io"
)

const headerSize = 6

// RawRecord is one framed unit from the byte stream
type RawRecord struct {
	Reserved uint16
	Type     uint16
	Payload  []byte
}

// Reader frames a byte buffer into records. Restart from the beginning by
// constructing a new Reader over the same buffer
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a Reader over data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next returns the next record or io.EOF once framing stops
// Payload aliases the underlying buffer and must not be mutated
func (r *Reader) Next() (RawRecord, error) {
	if r.off+headerSize > len(r.data) {
		return RawRecord{}, io.EOF
	}
	reserved := binary.BigEndian.Uint16(r.data[r.off:])
	recType := binary.BigEndian.Uint16(r.data[r.off+2:])
	recSize := binary.BigEndian.Uint16(r.data[r.off+4:])

	if recSize < headerSize {
		// malformed, drop the tail
		r.off = len(r.data)
		return RawRecord{}, io.EOF
	}
	end := r.off + int(recSize)
	if end > len(r.data) {
		// incomplete trailing record, tolerate and stop
		r.off = len(r.data)
		return RawRecord{}, io.EOF
	}

	rec := RawRecord{
		Reserved: reserved,
		Type:     recType,
		Payload:  r.data[r.off+headerSize : end],
	}
	r.off = end
	return rec, nil
}

// All collects every remaining record. Convenience for callers that do not
// need streaming
func (r *Reader) All() []RawRecord {
	var out []RawRecord
	for {
		rec, err := r.Next()
		if err != nil {
			return out
		}
		out = append(out, rec)
	}
}
