package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"kaucja/internal/services/scan/domain"
)

func detail(loc, printer, name, total string) domain.DetailRow {
	return domain.DetailRow{
		Location: loc,
		Printer:  printer,
		Name:     name,
		Total:    decimal.RequireFromString(total),
		Source:   "structured",
	}
}

func TestAggregatorBuckets(t *testing.T) {
	t.Parallel()

	a := NewAggregator()
	rows := []domain.DetailRow{
		detail("LODZ", "P01", "kaucja szkło", "1.00"),
		detail("LODZ", "P01", "kaucja szkło", "-1.00"),
		detail("LODZ", "P01", "kaucja butelka", "0.50"),
		detail("WAWA", "P02", "kaucja szkło", "2.00"),
	}
	for _, r := range rows {
		if err := a.Add(r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got := a.Finalize()
	if len(got) != 3 {
		t.Fatalf("buckets = %d, want 3", len(got))
	}

	// ordered by location, printer, name
	if got[0].Name != "kaucja butelka" || got[1].Name != "kaucja szkło" || got[2].Location != "WAWA" {
		t.Fatalf("order = %+v", got)
	}

	szklo := got[1]
	if szklo.Rows != 2 || szklo.Issued != 1 || szklo.Returns != 1 {
		t.Fatalf("szklo counts = %+v", szklo)
	}
	if !szklo.SumTotal.IsZero() {
		t.Fatalf("szklo sum = %s, want 0", szklo.SumTotal)
	}
}

func TestAggregatorZeroTotalCountsRowsOnly(t *testing.T) {
	t.Parallel()

	a := NewAggregator()
	if err := a.Add(detail("LODZ", "P01", "kaucja", "0.00")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := a.Finalize()
	if len(got) != 1 {
		t.Fatalf("buckets = %d", len(got))
	}
	if got[0].Rows != 1 || got[0].Issued != 0 || got[0].Returns != 0 {
		t.Fatalf("bucket = %+v", got[0])
	}
}

func TestAggregatorSkipsUnmatched(t *testing.T) {
	t.Parallel()

	a := NewAggregator()
	row := detail("LODZ", "P01", "kaucja coś tam", "0.00")
	row.Source = SourceUnmatched
	if err := a.Add(row); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := a.Finalize(); len(got) != 0 {
		t.Fatalf("buckets = %+v, want none", got)
	}
}

func TestAggregatorOrderIndependent(t *testing.T) {
	t.Parallel()

	rows := []domain.DetailRow{
		detail("A", "P1", "x", "1.00"),
		detail("A", "P1", "x", "-0.50"),
		detail("B", "P1", "x", "3.00"),
		detail("A", "P2", "y", "0.25"),
	}

	forward := NewAggregator()
	for _, r := range rows {
		_ = forward.Add(r)
	}
	reverse := NewAggregator()
	for i := len(rows) - 1; i >= 0; i-- {
		_ = reverse.Add(rows[i])
	}

	f, r := forward.Finalize(), reverse.Finalize()
	if len(f) != len(r) {
		t.Fatalf("bucket counts differ: %d vs %d", len(f), len(r))
	}
	for i := range f {
		if f[i].AggregateKey != r[i].AggregateKey || f[i].Rows != r[i].Rows || !f[i].SumTotal.Equal(r[i].SumTotal) {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, f[i], r[i])
		}
	}
}

func TestAggregatorMergeEqualsSequential(t *testing.T) {
	t.Parallel()

	rows := []domain.DetailRow{
		detail("A", "P1", "x", "1.00"),
		detail("A", "P1", "x", "2.00"),
		detail("B", "P1", "y", "-1.00"),
		detail("A", "P1", "x", "-3.00"),
	}

	seq := NewAggregator()
	for _, r := range rows {
		_ = seq.Add(r)
	}

	left, right := NewAggregator(), NewAggregator()
	for i, r := range rows {
		if i%2 == 0 {
			_ = left.Add(r)
		} else {
			_ = right.Add(r)
		}
	}
	if err := left.Merge(right); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	a, b := seq.Finalize(), left.Finalize()
	if len(a) != len(b) {
		t.Fatalf("bucket counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].AggregateKey != b[i].AggregateKey ||
			a[i].Rows != b[i].Rows ||
			a[i].Issued != b[i].Issued ||
			a[i].Returns != b[i].Returns ||
			!a[i].SumTotal.Equal(b[i].SumTotal) {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAggregatorAddAfterFinalize(t *testing.T) {
	t.Parallel()

	a := NewAggregator()
	_ = a.Finalize()
	err := a.Add(detail("A", "P1", "x", "1.00"))
	if err == nil {
		t.Fatal("Add after Finalize succeeded")
	}
	if err := a.Merge(NewAggregator()); err == nil {
		t.Fatal("Merge after Finalize succeeded")
	}
}

func TestAggregatorInvariantIssuedReturnsWithinRows(t *testing.T) {
	t.Parallel()

	a := NewAggregator()
	totals := []string{"1.00", "-1.00", "0.00", "5.25", "-0.10"}
	for _, tt := range totals {
		_ = a.Add(detail("A", "P1", "x", tt))
	}
	got := a.Finalize()
	if len(got) != 1 {
		t.Fatalf("buckets = %d", len(got))
	}
	b := got[0]
	if b.Issued+b.Returns > b.Rows {
		t.Fatalf("issued %d + returns %d exceeds rows %d", b.Issued, b.Returns, b.Rows)
	}
	if b.Rows != 5 || b.Issued != 2 || b.Returns != 2 {
		t.Fatalf("bucket = %+v", b)
	}
}
