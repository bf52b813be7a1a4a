package report

import (
	"github.com/xuri/excelize/v2"

	perr "kaucja/internal/platform/errors"
	"kaucja/internal/services/scan/domain"
)

// WriteXLSX writes a workbook with a Detail and an Aggregate sheet
func WriteXLSX(path string, details []domain.DetailRow, aggregates []domain.AggregateRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const detailSheet = "Detail"
	if err := f.SetSheetName(f.GetSheetName(0), detailSheet); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "rename sheet")
	}
	if err := writeSheet(f, detailSheet, detailHeader, DetailCells(details, false)); err != nil {
		return err
	}

	const aggSheet = "Aggregate"
	if _, err := f.NewSheet(aggSheet); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "add sheet")
	}
	if err := writeSheet(f, aggSheet, aggregateHeader, AggregateCells(aggregates)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "save workbook")
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	write := func(rowIdx int, cells []string) error {
		for col, cell := range cells {
			name, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnknown, "cell name")
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnknown, "set cell")
			}
		}
		return nil
	}

	if err := write(1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := write(i+2, row); err != nil {
			return err
		}
	}
	return nil
}
