package binrec

import (
	"github.com/shopspring/decimal"

	perr "kaucja/internal/platform/errors"
)

// depositFixedLen covers name, unit value, raw quantity, precision and total.
// Sign and kind bytes follow on newer firmware but are optional
const depositFixedLen = 40 + 6 + 6 + 1 + 6

// Deposit is the structured packaging record (0x63). It is authoritative:
// when one decodes successfully the heuristic text path is not consulted
// for that document
type Deposit struct {
	Name      string
	UnitValue decimal.Decimal
	Quantity  decimal.Decimal
	Precision byte
	Total     decimal.Decimal
	Sign      byte
	Kind      byte
}

// Return reports whether the record marks a returned container
func (d Deposit) Return() bool { return d.Sign != 0 }

// DecodeDeposit decodes a 0x63 payload
// Layout: name 40, unit value BCD6(2), quantity BCD6 scaled by the precision
// byte that follows it, total BCD6(2), then sign and kind bytes
// A set sign byte marks a return and negates the decoded total
func DecodeDeposit(p []byte) (Deposit, error) {
	if len(p) < depositFixedLen {
		return Deposit{}, perr.Decodef("deposit record too short: %d bytes, want %d", len(p), depositFixedLen)
	}

	d := Deposit{Name: asciiz(p[:40])}
	off := 40

	var err error
	if d.UnitValue, err = bcd6ToDecimal(p[off:off+6], 2); err != nil {
		return Deposit{}, err
	}
	off += 6

	qtyRaw := p[off : off+6]
	off += 6

	d.Precision = p[off]
	off++

	if d.Quantity, err = bcd6ToDecimal(qtyRaw, int(d.Precision)); err != nil {
		return Deposit{}, err
	}

	if d.Total, err = bcd6ToDecimal(p[off:off+6], 2); err != nil {
		return Deposit{}, err
	}
	off += 6

	if len(p) >= off+2 {
		d.Sign = p[off]
		d.Kind = p[off+1]
	}
	if d.Return() {
		d.Total = d.Total.Neg()
	}
	return d, nil
}
