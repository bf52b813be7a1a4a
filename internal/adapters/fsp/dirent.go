package fsp

import (
	"strings"
	"time"
)

// Directory entry types on the wire
const (
	rdTypeEnd  = 0x00
	rdTypeFile = 0x01
	rdTypeDir  = 0x02
)

// DirEntry is one RDIRENT from a CC_GET_DIR response
type DirEntry struct {
	Name string
	Size uint32
	Time time.Time
	Dir  bool
}

// parseDirEntries decodes a directory listing block
// RDIRENT layout: time u32, size u32, type byte, ASCIIZ name, each entry
// padded to a 4-byte boundary. A RDTYPE_END entry marks the final page
func parseDirEntries(data []byte) (entries []DirEntry, end bool) {
	off := 0
	for off+9 < len(data) {
		ts := uint32(data[off])<<24 | uint32(data[off+1])<<16 | uint32(data[off+2])<<8 | uint32(data[off+3])
		size := uint32(data[off+4])<<24 | uint32(data[off+5])<<16 | uint32(data[off+6])<<8 | uint32(data[off+7])
		typ := data[off+8]

		nameStart := off + 9
		nameEnd := nameStart
		for nameEnd < len(data) && data[nameEnd] != 0 {
			nameEnd++
		}
		name := strings.ToValidUTF8(string(data[nameStart:nameEnd]), "")

		// advance past the NUL and the 4-byte alignment padding
		off = nameEnd + 1
		off = (off + 3) &^ 3

		if typ == rdTypeEnd {
			return entries, true
		}
		if name == "" || (typ != rdTypeFile && typ != rdTypeDir) {
			continue
		}
		e := DirEntry{Name: name, Size: size, Dir: typ == rdTypeDir}
		if ts > 0 {
			e.Time = time.Unix(int64(ts), 0).UTC()
		}
		entries = append(entries, e)
	}
	return entries, false
}
