package journal

import (
	"encoding/binary"
	"strings"

	perr "kaucja/internal/platform/errors"
)

// mediumFixedLen is the packed size of the medium.dat header:
// u16 + u32 + u32 + 14 + u32 + 14 + 10 + u16
const mediumFixedLen = 2 + 4 + 4 + 14 + 4 + 14 + 10 + 2

// Medium describes the storage medium header the device keeps in
// EJ0/medium.dat. The registration prefix is empty until fiscalization
type Medium struct {
	FileVersion uint32
	DeviceID    uint32
	MediumNo    uint32
	Prefix      string
	FirstDoc    uint32
	RegistryNo  string
	NIP         string
	WorkMode    uint16
}

// deviceModels maps device ids to marketing model names
var deviceModels = map[uint32]string{
	0x66: "Thermal HD Online 2.01",
	0x67: "Thermal XL2 Online 2.01",
	0x69: "Trio Online 1.02",
	0x6A: "Pospay Online 1.01",
	0x6B: "Vero 2.01",
	0x6C: "Thermal HX Online 1.01",
	0x6D: "Thermal XL2 S Online 2.01",
	0x6E: "Thermal HX S Online 1.01",
	0x6F: "Evo 1.01",
	0x70: "Thermal XL2 B 1.01",
	0x71: "Thermal XL2 W 1.01",
	0x72: "Fawag Box 1.01",
	0x73: "Temo Online 2.01",
	0x74: "Trio Online 2.01",
	0x75: "Pospay Online 2.01",
}

// Model returns the device model name, or "unknown" for ids not in the map
func (m Medium) Model() string {
	if name, ok := deviceModels[m.DeviceID]; ok {
		return name
	}
	return "unknown"
}

// Fiscalized reports whether the device has been registered: the prefix
// field is only set after fiscalization and fetching makes no sense before
func (m Medium) Fiscalized() bool { return m.Prefix != "" }

// ParseMedium decodes a medium.dat header
func ParseMedium(data []byte) (Medium, error) {
	if len(data) < mediumFixedLen {
		return Medium{}, perr.Decodef("medium.dat too short: %d bytes, want %d", len(data), mediumFixedLen)
	}
	off := 0
	m := Medium{}
	m.FileVersion = uint32(binary.BigEndian.Uint16(data[off:]))
	off += 2
	m.DeviceID = binary.BigEndian.Uint32(data[off:])
	off += 4
	m.MediumNo = binary.BigEndian.Uint32(data[off:])
	off += 4
	m.Prefix = asciiField(data[off : off+14])
	off += 14
	m.FirstDoc = binary.BigEndian.Uint32(data[off:])
	off += 4
	m.RegistryNo = asciiField(data[off : off+14])
	off += 14
	m.NIP = asciiField(data[off : off+10])
	off += 10
	m.WorkMode = binary.BigEndian.Uint16(data[off:])
	return m, nil
}

// asciiField trims NUL padding and keeps printable ASCII only
func asciiField(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c == 0 {
			break
		}
		if c >= 0x20 && c < 0x7F {
			sb.WriteByte(c)
		}
	}
	return strings.TrimSpace(sb.String())
}
