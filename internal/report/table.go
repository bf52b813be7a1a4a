package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"kaucja/internal/services/scan/domain"
)

// WriteDetailTable renders detail rows as an aligned text table
func WriteDetailTable(w io.Writer, rows []domain.DetailRow) error {
	return writeTable(w, detailHeader, detailNumeric, DetailCells(rows, true))
}

// WriteAggregateTable renders aggregate rows as an aligned text table
func WriteAggregateTable(w io.Writer, rows []domain.AggregateRow) error {
	return writeTable(w, aggregateHeader, aggregateNumeric, AggregateCells(rows))
}

// writeTable pads every column to its widest cell; numeric columns are
// right-aligned so amounts line up on the decimal point
func writeTable(w io.Writer, header []string, numeric []bool, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow := func(cells []string) error {
		var sb strings.Builder
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			pad := widths[i] - utf8.RuneCountInString(cell)
			if numeric[i] {
				sb.WriteString(strings.Repeat(" ", pad))
				sb.WriteString(cell)
			} else {
				sb.WriteString(cell)
				if i < len(cells)-1 {
					sb.WriteString(strings.Repeat(" ", pad))
				}
			}
		}
		sb.WriteByte('\n')
		_, err := io.WriteString(w, sb.String())
		return err
	}

	if err := writeRow(header); err != nil {
		return err
	}
	total := 0
	for i, width := range widths {
		if i > 0 {
			total += 2
		}
		total += width
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", total)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return nil
}
