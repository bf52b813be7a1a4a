// Package domain defines the core types and interfaces for the scan service
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Input controls one archive scan
type Input struct {
	Root    string // archive root holding location/printer/... trees
	Workers int
	All     bool // include unmatched keyword lines in the detail output
	Persist bool // record the run through the recorder port
}

// DetailRow is one extracted deposit transaction with its provenance
type DetailRow struct {
	Location  string
	Printer   string
	File      string
	DocNumber uint32
	Timestamp time.Time
	Name      string
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Total     decimal.Decimal
	Source    string // "structured" | "heuristic" | "unmatched"
}

// AggregateKey groups detail rows for the cross-location summary
type AggregateKey struct {
	Location string
	Printer  string
	Name     string
}

// AggregateRow is one summary bucket
// Rows counts every transaction, Issued those with a positive total,
// Returns those with a negative one; zero-total rows count in Rows only
type AggregateRow struct {
	AggregateKey
	Rows     int
	Issued   int
	Returns  int
	SumTotal decimal.Decimal
}

// Result is the outcome of one scan run
type Result struct {
	Details      []DetailRow
	Aggregates   []AggregateRow
	FilesScanned int
	FilesFailed  int
}
