package packaging

import (
	"github.com/shopspring/decimal"

	"kaucja/internal/core/binrec"
	"kaucja/internal/core/normalize"
)

// Source tags where an entry came from
type Source uint8

// Decode sources, in priority order
const (
	SourceNone Source = iota
	SourceStructured
	SourceHeuristic
)

// String returns the wire/report name of the source
func (s Source) String() string {
	switch s {
	case SourceStructured:
		return "structured"
	case SourceHeuristic:
		return "heuristic"
	default:
		return "none"
	}
}

// Entry is one deposit transaction extracted from a document
// Quantity is always non-negative; a negative Total marks a return
type Entry struct {
	Name      string
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Total     decimal.Decimal
	Source    Source
}

// Outcome is the per-document decode result, computed once so the
// suppression rule holds by construction: any structured entry anywhere in
// the document disables heuristic scanning document-wide
type Outcome struct {
	Source    Source
	Entries   []Entry
	Unmatched []string // keyword lines the pattern could not parse
}

// Extractor runs the two-tier decode over assembled documents
type Extractor struct {
	vocab *Vocab
	norm  *normalize.Normalizer
}

// NewExtractor constructs an Extractor
func NewExtractor(v *Vocab, n *normalize.Normalizer) *Extractor {
	return &Extractor{vocab: v, norm: n}
}

// Extract returns the ordered deposit entries of doc
func (e *Extractor) Extract(doc *binrec.Document) Outcome {
	if entries := e.structured(doc); len(entries) > 0 {
		return Outcome{Source: SourceStructured, Entries: entries}
	}
	return e.heuristic(doc)
}

func (e *Extractor) structured(doc *binrec.Document) []Entry {
	var out []Entry
	for _, dl := range doc.Deposits {
		d := dl.Deposit
		out = append(out, Entry{
			Name:      e.norm.Normalize(d.Name),
			Quantity:  d.Quantity,
			UnitValue: d.UnitValue,
			Total:     d.Total,
			Source:    SourceStructured,
		})
	}
	return out
}

func (e *Extractor) heuristic(doc *binrec.Document) Outcome {
	out := Outcome{Source: SourceNone}
	for _, line := range doc.Lines {
		if !e.vocab.Candidate(line) {
			continue
		}
		entry, ok := e.vocab.matchLine(line)
		if !ok {
			out.Unmatched = append(out.Unmatched, line)
			continue
		}
		entry.Name = e.norm.Normalize(entry.Name)
		out.Entries = append(out.Entries, entry)
	}
	if len(out.Entries) > 0 {
		out.Source = SourceHeuristic
	}
	return out
}
