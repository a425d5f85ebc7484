package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// ReadXLSX reads rows from the first sheet of a workbook laid out like the CSV.
func ReadXLSX(r io.Reader) ([]Row, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", assessment.ErrIngestion, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", assessment.ErrIngestion)
	}
	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", assessment.ErrIngestion, sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty sheet %q", assessment.ErrIngestion, sheets[0])
	}

	cols, err := columnIndex(records[0])
	if err != nil {
		return nil, err
	}
	var rows []Row
	for i, rec := range records[1:] {
		if row, ok := cols.row(i+2, rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
