package fsp

import (
	"bytes"
	"encoding/binary"
	"testing"

	perr "kaucja/internal/platform/errors"
)

func TestChecksumKnownVector(t *testing.T) {
	t.Parallel()

	// bare CC_VERSION request: 12 header bytes, cmd 0x10, everything else zero
	// sum = 12 (length) + 0x10 = 28
	p := buildPacket(CmdVersion, 0, 0, 0, nil)
	if p[1] != 0x1C {
		t.Fatalf("checksum = 0x%02X, want 0x1C", p[1])
	}
}

func TestChecksumZeroedSlot(t *testing.T) {
	t.Parallel()

	p := buildPacket(CmdGetFile, 0xBEEF, 7, 1024, []byte("ROOT/A0/file.bin\x00"))
	got := p[1]
	p[1] = 0
	if want := checksum(p); got != want {
		t.Fatalf("stored checksum 0x%02X, recomputed 0x%02X", got, want)
	}
}

func TestPacketRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte("ROOT\x00")
	wire := buildPacket(CmdGetDir, 0x0102, 0x0304, 0x05060708, data)

	got, err := parsePacket(wire)
	if err != nil {
		t.Fatalf("parsePacket: %v", err)
	}
	if got.Cmd != CmdGetDir {
		t.Fatalf("cmd = 0x%02X, want 0x%02X", got.Cmd, CmdGetDir)
	}
	if got.Key != 0x0102 || got.Seq != 0x0304 {
		t.Fatalf("key/seq = 0x%04X/0x%04X", got.Key, got.Seq)
	}
	if got.Position != 0x05060708 {
		t.Fatalf("position = 0x%08X", got.Position)
	}
	if !bytes.Equal(got.Data, data) {
		t.Fatalf("data = %q, want %q", got.Data, data)
	}
	if len(got.Extra) != 0 {
		t.Fatalf("extra = %q, want empty", got.Extra)
	}
}

func TestParsePacketExtraBytes(t *testing.T) {
	t.Parallel()

	wire := buildPacket(CmdGetDir, 1, 1, 0, []byte("A\x00"))
	wire = append(wire, 0x00, 0x40) // preferred block size trailer

	got, err := parsePacket(wire)
	if err != nil {
		t.Fatalf("parsePacket: %v", err)
	}
	if !bytes.Equal(got.Data, []byte("A\x00")) {
		t.Fatalf("data = %q", got.Data)
	}
	if binary.BigEndian.Uint16(got.Extra) != 0x40 {
		t.Fatalf("extra = % X", got.Extra)
	}
}

func TestParsePacketShort(t *testing.T) {
	t.Parallel()

	_, err := parsePacket([]byte{0x10, 0x00, 0x00})
	if !perr.IsCode(err, perr.ErrorCodeProtocol) {
		t.Fatalf("err = %v, want protocol error", err)
	}
}

func TestParsePacketLengthOverflow(t *testing.T) {
	t.Parallel()

	wire := buildPacket(CmdVersion, 0, 0, 0, nil)
	binary.BigEndian.PutUint16(wire[6:], 500) // claims more data than present

	_, err := parsePacket(wire)
	if !perr.IsCode(err, perr.ErrorCodeProtocol) {
		t.Fatalf("err = %v, want protocol error", err)
	}
}
