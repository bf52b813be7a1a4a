// Package service implements the scan service
package service

import (
	"sort"

	"github.com/shopspring/decimal"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/services/scan/domain"
)

// Aggregator folds detail rows into per location/printer/name buckets.
// Partial aggregators built by parallel workers merge into one before
// Finalize; a finalized aggregator rejects further input
type Aggregator struct {
	buckets map[domain.AggregateKey]*domain.AggregateRow
	final   bool
}

// NewAggregator constructs an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[domain.AggregateKey]*domain.AggregateRow)}
}

// Add folds one detail row in. Unmatched rows carry no amounts and are not
// counted
func (a *Aggregator) Add(row domain.DetailRow) error {
	if a.final {
		return perr.Internalf("aggregator already finalized")
	}
	if row.Source == SourceUnmatched {
		return nil
	}

	key := domain.AggregateKey{Location: row.Location, Printer: row.Printer, Name: row.Name}
	b, ok := a.buckets[key]
	if !ok {
		b = &domain.AggregateRow{AggregateKey: key, SumTotal: decimal.Zero}
		a.buckets[key] = b
	}

	b.Rows++
	switch row.Total.Sign() {
	case 1:
		b.Issued++
	case -1:
		b.Returns++
	}
	b.SumTotal = b.SumTotal.Add(row.Total)
	return nil
}

// Merge folds another aggregator's buckets into this one
func (a *Aggregator) Merge(other *Aggregator) error {
	if a.final {
		return perr.Internalf("aggregator already finalized")
	}
	for key, ob := range other.buckets {
		b, ok := a.buckets[key]
		if !ok {
			cp := *ob
			a.buckets[key] = &cp
			continue
		}
		b.Rows += ob.Rows
		b.Issued += ob.Issued
		b.Returns += ob.Returns
		b.SumTotal = b.SumTotal.Add(ob.SumTotal)
	}
	return nil
}

// Finalize seals the aggregator and returns its buckets ordered by
// location, printer, name
func (a *Aggregator) Finalize() []domain.AggregateRow {
	a.final = true
	out := make([]domain.AggregateRow, 0, len(a.buckets))
	for _, b := range a.buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		if out[i].Printer != out[j].Printer {
			return out[i].Printer < out[j].Printer
		}
		return out[i].Name < out[j].Name
	})
	return out
}
