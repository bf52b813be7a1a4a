// Package fsp implements the FSP v2 file transfer protocol the printers
// expose over UDP, enough to list directories and fetch journal files
package fsp

import (
	"encoding/binary"

	perr "kaucja/internal/platform/errors"
)

// Protocol commands
const (
	CmdVersion byte = 0x10
	CmdErr     byte = 0x40
	CmdGetDir  byte = 0x41
	CmdGetFile byte = 0x42
	CmdBye     byte = 0x4A
	CmdStat    byte = 0x4D
)

// headerLen is the fixed FSP v2 packet header:
// cmd byte, checksum byte, key u16, seq u16, data length u16, position u32
const headerLen = 12

// packet is one parsed FSP frame
type packet struct {
	Cmd      byte
	Key      uint16
	Seq      uint16
	Position uint32
	Data     []byte
	Extra    []byte
}

// checksum computes the additive 8-bit checksum over a packet whose
// checksum byte is zeroed, seeded with the packet length
func checksum(p []byte) byte {
	sum := len(p)
	for _, b := range p {
		sum += int(b)
	}
	return byte((sum + sum>>8) & 0xFF)
}

// buildPacket assembles a frame ready to send
func buildPacket(cmd byte, key, seq uint16, position uint32, data []byte) []byte {
	p := make([]byte, headerLen+len(data))
	p[0] = cmd
	// p[1] is the checksum, filled in last
	binary.BigEndian.PutUint16(p[2:], key)
	binary.BigEndian.PutUint16(p[4:], seq)
	binary.BigEndian.PutUint16(p[6:], uint16(len(data)))
	binary.BigEndian.PutUint32(p[8:], position)
	copy(p[headerLen:], data)
	p[1] = checksum(p)
	return p
}

// parsePacket splits a received frame into header fields, payload and
// the extra bytes some commands append past the declared data length
func parsePacket(b []byte) (packet, error) {
	if len(b) < headerLen {
		return packet{}, perr.Protocolf("short packet: %d bytes", len(b))
	}
	dataLen := int(binary.BigEndian.Uint16(b[6:8]))
	if headerLen+dataLen > len(b) {
		return packet{}, perr.Protocolf("declared data length %d exceeds packet", dataLen)
	}
	return packet{
		Cmd:      b[0],
		Key:      binary.BigEndian.Uint16(b[2:4]),
		Seq:      binary.BigEndian.Uint16(b[4:6]),
		Position: binary.BigEndian.Uint32(b[8:12]),
		Data:     b[headerLen : headerLen+dataLen],
		Extra:    b[headerLen+dataLen:],
	}, nil
}
