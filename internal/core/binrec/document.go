package binrec

// DepositLine is a decoded deposit record plus the sale item it followed,
// when one preceded it in the stream
type DepositLine struct {
	Deposit  Deposit
	ItemName string
}

// Document is the decoded representation of one journal file
type Document struct {
	Header     *Header
	Footer     *Footer
	Items      []SaleItem
	Lines      []string
	Deposits   []DepositLine
	Signatures []Signature
	SHA        string
}

// Assemble folds a record stream into a Document. Failures are scoped to
// the record that caused them: a record that cannot be decoded is skipped
// and the rest of the document survives
func Assemble(data []byte) *Document {
	doc := &Document{}
	r := NewReader(data)

	var lastItem string
	for {
		rec, err := r.Next()
		if err != nil {
			return doc
		}
		switch rec.Type {
		case TypeHeader:
			if h, err := DecodeHeader(rec.Payload); err == nil {
				doc.Header = &h
			}
		case TypeFooter:
			if f, err := DecodeFooter(rec.Payload); err == nil {
				doc.Footer = &f
			}
		case TypeSaleItem:
			it, err := DecodeSaleItem(rec.Payload)
			if err != nil {
				lastItem = ""
				continue
			}
			doc.Items = append(doc.Items, it)
			lastItem = it.Name
		case TypeDeposit:
			d, err := DecodeDeposit(rec.Payload)
			if err != nil {
				continue
			}
			doc.Deposits = append(doc.Deposits, DepositLine{Deposit: d, ItemName: lastItem})
		case TypeTextLine:
			if txt, err := DecodeTextLine(rec.Payload); err == nil && txt != "" {
				doc.Lines = append(doc.Lines, txt)
			}
		case TypeSHA:
			if sha, err := DecodeSHA(rec.Payload); err == nil {
				doc.SHA = sha
			}
		case TypeSigRSA512, TypeSigRSA2048:
			doc.Signatures = append(doc.Signatures, DecodeSignature(rec.Type, rec.Payload))
		default:
			// unknown types are framed but carry nothing we report on
		}
	}
}

// DocNumber returns the document number from header or footer, zero when absent
func (d *Document) DocNumber() uint32 {
	if d.Header != nil {
		return d.Header.DocNumber
	}
	if d.Footer != nil {
		return d.Footer.DocNumber
	}
	return 0
}
