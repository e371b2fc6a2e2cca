package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetRecord is one data row keyed by its original header text.
type sheetRecord map[string]string

// column returns the first non-empty value among names, matched against
// headers case-insensitively after trimming.
func (r sheetRecord) column(names ...string) string {
	clean := make(map[string]string, len(r))
	for k, v := range r {
		clean[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	for _, n := range names {
		if v := clean[n]; v != "" {
			return v
		}
	}
	return ""
}

func recordsFromRows(rows [][]string) ([]sheetRecord, error) {
	if len(rows) == 0 {
		return nil, errors.New("file has no header row")
	}
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var out []sheetRecord
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(sheetRecord, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSVRecords(r io.Reader) ([]sheetRecord, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	return recordsFromRows(rows)
}

// readXLSXRecords reads the first worksheet.
func readXLSXRecords(r io.Reader) ([]sheetRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	return recordsFromRows(rows)
}
