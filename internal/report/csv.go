package report

import (
	"encoding/csv"
	"io"

	"kaucja/internal/services/scan/domain"
)

// WriteDetailCSV renders detail rows as CSV with a header row
func WriteDetailCSV(w io.Writer, rows []domain.DetailRow) error {
	return writeCSV(w, detailHeader, DetailCells(rows, false))
}

// WriteAggregateCSV renders aggregate rows as CSV with a header row
func WriteAggregateCSV(w io.Writer, rows []domain.AggregateRow) error {
	return writeCSV(w, aggregateHeader, AggregateCells(rows))
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
