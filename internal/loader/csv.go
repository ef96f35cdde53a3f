package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"surveybench/pkg/contracts/domain"
)

func (l *Loader) loadCSV(path string) ([]domain.SurveyRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, short cells stay empty

	headerRecord, err := reader.Read()
	if err == io.EOF {
		return []domain.SurveyRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := canonicalHeaders(headerRecord)

	var rows []domain.SurveyRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rows = append(rows, rowFromRecord(header, record))
	}

	return rows, nil
}

func (l *Loader) loadJSON(path string) ([]domain.SurveyRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []domain.SurveyRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
