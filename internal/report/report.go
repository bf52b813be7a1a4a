// Package report renders scan results as aligned text tables, CSV and XLSX
package report

import (
	"strconv"
	"time"

	"kaucja/internal/services/scan/domain"
)

const pathWidth = 60

var detailHeader = []string{
	"location", "printer", "file", "doc_number", "timestamp",
	"pack_name", "qty", "value", "total", "source",
}

var detailNumeric = []bool{
	false, false, false, true, false,
	false, true, true, true, false,
}

var aggregateHeader = []string{
	"location", "printer", "pack_name", "rows", "returns", "issued", "sum_total",
}

var aggregateNumeric = []bool{
	false, false, false, true, true, true, true,
}

// DetailCells formats detail rows for rendering. Paths are shortened for
// the text table and kept whole for machine-readable exports
func DetailCells(rows []domain.DetailRow, shortenPaths bool) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		file := r.File
		if shortenPaths {
			file = shortPath(file, pathWidth)
		}
		out = append(out, []string{
			r.Location,
			r.Printer,
			file,
			strconv.FormatUint(uint64(r.DocNumber), 10),
			formatTime(r.Timestamp),
			r.Name,
			r.Quantity.String(),
			r.UnitValue.String(),
			r.Total.String(),
			r.Source,
		})
	}
	return out
}

// AggregateCells formats aggregate rows for rendering
func AggregateCells(rows []domain.AggregateRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Location,
			r.Printer,
			r.Name,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Returns),
			strconv.Itoa(r.Issued),
			r.SumTotal.String(),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// shortPath collapses the middle of long paths, keeping head and tail
func shortPath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	keep := max - 3
	head := keep / 2
	tail := keep - head
	return s[:head] + "..." + s[len(s)-tail:]
}
