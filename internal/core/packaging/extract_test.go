package packaging

import (
	"testing"

	"github.com/shopspring/decimal"

	"kaucja/internal/core/binrec"
	"kaucja/internal/core/normalize"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	v, err := LoadVocab()
	if err != nil {
		t.Fatalf("load vocab: %v", err)
	}
	return NewExtractor(v, normalize.New())
}

func dep(name string, qty, value, total int64) binrec.DepositLine {
	return binrec.DepositLine{Deposit: binrec.Deposit{
		Name:      name,
		Quantity:  decimal.New(qty, -2),
		UnitValue: decimal.New(value, -2),
		Total:     decimal.New(total, -2),
	}}
}

func TestStructuredSuppressesHeuristic(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	doc := &binrec.Document{
		Deposits: []binrec.DepositLine{dep("kaucja szkło", 100, 100, 100)},
		// lines that would also match the heuristic if it ran
		Lines: []string{"kaucja szkło 1 x 1,00 1,00"},
	}

	out := e.Extract(doc)
	if out.Source != SourceStructured {
		t.Fatalf("source = %v", out.Source)
	}
	if len(out.Entries) != 1 {
		t.Fatalf("entries = %d, the deposit line must not be double counted", len(out.Entries))
	}
	for _, en := range out.Entries {
		if en.Source != SourceStructured {
			t.Fatalf("heuristic entry leaked through: %+v", en)
		}
	}
}

func TestHeuristicFallback(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	doc := &binrec.Document{
		Lines: []string{
			"Woda gazowana 0,5L 2 x 2,59 5,18", // ordinary item, no keyword
			"kaucja szkło 1 x 1.00 1.00",
		},
	}

	out := e.Extract(doc)
	if out.Source != SourceHeuristic {
		t.Fatalf("source = %v", out.Source)
	}
	if len(out.Entries) != 1 {
		t.Fatalf("entries = %d", len(out.Entries))
	}
	en := out.Entries[0]
	if en.Name != "kaucja szkło" {
		t.Fatalf("name = %q", en.Name)
	}
	if !en.Total.Equal(decimal.New(100, -2)) || !en.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("qty/total = %s/%s", en.Quantity, en.Total)
	}
	if en.Source != SourceHeuristic {
		t.Fatalf("source = %v", en.Source)
	}
}

func TestHeuristicCommaDecimalsAndReturn(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	doc := &binrec.Document{
		Lines: []string{"ZWROT kaucja butelka -2 x 0,50 -1,00"},
	}

	out := e.Extract(doc)
	if len(out.Entries) != 1 {
		t.Fatalf("entries = %d", len(out.Entries))
	}
	en := out.Entries[0]
	if en.Quantity.IsNegative() {
		t.Fatalf("quantity must be non-negative, got %s", en.Quantity)
	}
	if !en.Total.Equal(decimal.New(-100, -2)) {
		t.Fatalf("total = %s, want -1.00", en.Total)
	}
}

func TestHeuristicUnicodeTimesSign(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	doc := &binrec.Document{
		Lines: []string{"kaucja skrzynka 1 × 5,50 5,50"},
	}

	out := e.Extract(doc)
	if len(out.Entries) != 1 {
		t.Fatalf("entries = %d", len(out.Entries))
	}
}

func TestKeywordLineWithoutShapeIsUnmatched(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	doc := &binrec.Document{
		Lines: []string{"OPAKOWANIA ZWROTNE:"},
	}

	out := e.Extract(doc)
	if out.Source != SourceNone {
		t.Fatalf("source = %v", out.Source)
	}
	if len(out.Entries) != 0 {
		t.Fatalf("entries = %d", len(out.Entries))
	}
	if len(out.Unmatched) != 1 {
		t.Fatalf("unmatched = %#v", out.Unmatched)
	}
}

func TestNonKeywordLineSilentlySkipped(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	doc := &binrec.Document{
		Lines: []string{"Chleb pszenny 1 x 4,20 4,20"},
	}

	out := e.Extract(doc)
	if out.Source != SourceNone || len(out.Entries) != 0 || len(out.Unmatched) != 0 {
		t.Fatalf("ordinary line must yield nothing: %+v", out)
	}
}

func TestEmptyDocument(t *testing.T) {
	t.Parallel()

	e := testExtractor(t)
	out := e.Extract(&binrec.Document{})
	if out.Source != SourceNone || len(out.Entries) != 0 {
		t.Fatalf("empty document must yield nothing: %+v", out)
	}
}

func TestVocabRejectsEmptyKeywords(t *testing.T) {
	t.Parallel()

	if _, err := loadVocab([]byte("version: 1\nkeywords: []\npattern: x")); err == nil {
		t.Fatalf("expected error for empty keyword list")
	}
}
