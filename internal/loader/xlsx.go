package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"surveybench/pkg/contracts/domain"
)

// loadWorkbook reads rows from the first sheet of a workbook. The first row
// is the header; layout matches the CSV format.
func (l *Loader) loadWorkbook(path string) ([]domain.SurveyRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return []domain.SurveyRow{}, nil
	}

	header := canonicalHeaders(records[0])
	rows := make([]domain.SurveyRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(header, record))
	}
	return rows, nil
}
