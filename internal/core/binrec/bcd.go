package binrec

import (
	"github.com/shopspring/decimal"

	perr "kaucja/internal/platform/errors"
)

// bcdToInt converts big-endian packed BCD bytes to an unsigned integer
// A nibble above 9 means the field is not BCD at all and the record
// carrying it must be skipped
func bcdToInt(b []byte) (int64, error) {
	var v int64
	for _, by := range b {
		hi := int64(by>>4) & 0xF
		lo := int64(by) & 0xF
		if hi > 9 || lo > 9 {
			return 0, perr.Decodef("invalid BCD nibble in % x", b)
		}
		v = v*100 + hi*10 + lo
	}
	return v, nil
}

// bcdToDecimal converts packed BCD to a decimal scaled by precision
func bcdToDecimal(b []byte, precision int) (decimal.Decimal, error) {
	i, err := bcdToInt(b)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(i, -int32(precision)), nil
}

// bcd6ToDecimal reads a 6-byte BCD amount field (tBcdVal)
func bcd6ToDecimal(b []byte, precision int) (decimal.Decimal, error) {
	if len(b) < 6 {
		return decimal.Zero, perr.Decodef("BCD amount field too short: %d bytes", len(b))
	}
	return bcdToDecimal(b[:6], precision)
}
