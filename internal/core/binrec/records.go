package binrec

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	perr "kaucja/internal/platform/errors"
)

// Record type tags observed in device journals
const (
	TypeTextLine   = 0x0A
	TypeFooter     = 0x41
	TypeHeader     = 0x44
	TypeSaleItem   = 0x61
	TypeDeposit    = 0x63
	TypeSHA        = 0x6D
	TypeSigRSA512  = 0x20
	TypeSigRSA2048 = 0x74
)

// fspEpoch is the device timestamp base: seconds count from 2000-01-01 UTC
var fspEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// TimeFromDevice converts seconds since 2000-01-01 UTC to time.Time
func TimeFromDevice(seconds uint32) time.Time {
	return fspEpoch.Add(time.Duration(seconds) * time.Second)
}

// decodeCP1250 decodes Windows-1250 bytes (Polish devices) into UTF-8
func decodeCP1250(b []byte) string {
	s, err := charmap.Windows1250.NewDecoder().String(string(b))
	if err != nil {
		// the charmap decoder does not error for single byte pages, but be safe
		return strings.ToValidUTF8(string(b), "")
	}
	return s
}

// asciiz decodes a fixed-width CP1250 field up to the first NUL
func asciiz(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	return decodeCP1250(b)
}

// Header is the document opening record (0x44)
type Header struct {
	DocType   byte
	Timestamp time.Time
	DocNumber uint32
	Mode      byte
	NIP       string
	Prefix    string
}

// DecodeHeader decodes a 0x44 payload
func DecodeHeader(p []byte) (Header, error) {
	if len(p) < 10 {
		return Header{}, perr.Decodef("header record too short: %d bytes", len(p))
	}
	h := Header{
		DocType:   p[0],
		Timestamp: TimeFromDevice(binary.BigEndian.Uint32(p[1:5])),
		DocNumber: binary.BigEndian.Uint32(p[5:9]),
		Mode:      p[9],
	}
	if len(p) >= 20 {
		h.NIP = asciiz(p[10:20])
	}
	if len(p) >= 21 {
		h.Prefix = asciiz(p[20:21])
	}
	return h, nil
}

// Footer is the document closing record (0x41)
type Footer struct {
	DocType      byte
	Mode         byte
	Status       byte
	DocNumber    uint32
	Timestamp    time.Time
	UniqueNumber string
	TillNumber   string
	Cashier      string
	BuyerNIP     string
}

// DecodeFooter decodes a 0x41 payload
func DecodeFooter(p []byte) (Footer, error) {
	if len(p) < 11 {
		return Footer{}, perr.Decodef("footer record too short: %d bytes", len(p))
	}
	f := Footer{
		DocType:   p[0],
		Mode:      p[1],
		Status:    p[2],
		DocNumber: binary.BigEndian.Uint32(p[3:7]),
		Timestamp: TimeFromDevice(binary.BigEndian.Uint32(p[7:11])),
	}
	off := 11
	if len(p) >= off+14 {
		f.UniqueNumber = asciiz(p[off : off+14])
		off += 14
	}
	if len(p) >= off+8 {
		f.TillNumber = asciiz(p[off : off+8])
		off += 8
	}
	if len(p) >= off+32 {
		f.Cashier = asciiz(p[off : off+32])
		off += 32
	}
	if len(p) >= off+30 {
		f.BuyerNIP = asciiz(p[off : off+30])
	}
	return f, nil
}

// DecodeTextLine decodes a 0x0A payload: a Pascal string of receipt text
func DecodeTextLine(p []byte) (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	ln := int(p[0])
	raw := p[1:]
	if ln < len(raw) {
		raw = raw[:ln]
	}
	return decodeCP1250(raw), nil
}

// SaleItem is a sale position record (0x61)
type SaleItem struct {
	Name      string
	VATSymbol byte
	Price     decimal.Decimal
	Total     decimal.Decimal
	Quantity  decimal.Decimal
	Precision byte
	Unit      string
	Desc      string
}

// DecodeSaleItem decodes a 0x61 payload
// Layout: name 80, VAT byte, price BCD6, total BCD6, quantity BCD6,
// precision byte, unit 4, description 50
func DecodeSaleItem(p []byte) (SaleItem, error) {
	if len(p) < 80 {
		return SaleItem{}, perr.Decodef("sale record too short: %d bytes", len(p))
	}
	it := SaleItem{Name: asciiz(p[:80])}
	off := 80

	if len(p) >= off+1 {
		it.VATSymbol = p[off]
	}
	off++

	var err error
	if len(p) >= off+6 {
		if it.Price, err = bcd6ToDecimal(p[off:off+6], 2); err != nil {
			return SaleItem{}, err
		}
	}
	off += 6
	if len(p) >= off+6 {
		if it.Total, err = bcd6ToDecimal(p[off:off+6], 2); err != nil {
			return SaleItem{}, err
		}
	}
	off += 6
	if len(p) >= off+6 {
		if it.Quantity, err = bcd6ToDecimal(p[off:off+6], 2); err != nil {
			return SaleItem{}, err
		}
	}
	off += 6
	if len(p) >= off+1 {
		it.Precision = p[off]
	}
	off++
	if len(p) >= off+4 {
		it.Unit = asciiz(p[off : off+4])
	}
	off += 4
	if len(p) > off {
		end := off + 50
		if end > len(p) {
			end = len(p)
		}
		it.Desc = asciiz(p[off:end])
	}
	return it, nil
}

// DecodeSHA decodes a 0x6D payload: a 32-byte digest, returned as hex
func DecodeSHA(p []byte) (string, error) {
	if len(p) < 32 {
		return "", perr.Decodef("sha record too short: %d bytes", len(p))
	}
	return hex.EncodeToString(p[:32]), nil
}

// Signature summarizes an RSA signature record (0x20 or 0x74)
type Signature struct {
	Type byte
	Len  int
}

// DecodeSignature records signature presence without verifying anything
func DecodeSignature(recType uint16, p []byte) Signature {
	return Signature{Type: byte(recType), Len: len(p)}
}
