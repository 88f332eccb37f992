package xlsx

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Riddhikharpe/house-helpers/internal/model"
)

// SheetName is the worksheet new tables are written to.
const SheetName = "Sheet1"

var errMissingHeader = errors.New("missing header row")

// Encode writes records as a workbook with the helper header row followed by
// one row per record. Numeric columns are written as numeric cells.
func Encode(w io.Writer, records []model.HelperRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(model.Columns))
	for i, c := range model.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.Name,
			rec.Age,
			string(rec.Gender),
			rec.Address,
			rec.Contact,
			rec.Experience,
			rec.PhotoPath,
			rec.Rate,
			rec.RegistrationDate,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	return nil
}

// Decode reads the first worksheet of r. The header row must match
// model.Columns; blank rows are skipped.
func Decode(r io.Reader) ([]model.HelperRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFile(f)
}

func decodeFile(f *excelize.File) ([]model.HelperRecord, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errMissingHeader
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

func decodeRows(rows [][]string) ([]model.HelperRecord, error) {
	if len(rows) == 0 {
		return nil, errMissingHeader
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]model.HelperRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(row []string) error {
	for i, want := range model.Columns {
		if i >= len(row) || strings.TrimSpace(row[i]) != want {
			return fmt.Errorf("unexpected header row %q", row)
		}
	}
	return nil
}

func decodeRow(row []string) (model.HelperRecord, error) {
	// GetRows drops trailing empty cells.
	cells := make([]string, len(model.Columns))
	copy(cells, row)

	age, err := parseInt("age", cells[1])
	if err != nil {
		return model.HelperRecord{}, err
	}
	experience, err := parseInt("experience", cells[5])
	if err != nil {
		return model.HelperRecord{}, err
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(cells[7]), 64)
	if err != nil || math.IsInf(rate, 0) || math.IsNaN(rate) || rate < 0 {
		return model.HelperRecord{}, fmt.Errorf("column rate: invalid number %q", cells[7])
	}

	return model.HelperRecord{
		Name:             cells[0],
		Age:              age,
		Gender:           model.Gender(cells[2]),
		Address:          cells[3],
		Contact:          cells[4],
		Experience:       experience,
		PhotoPath:        cells[6],
		Rate:             rate,
		RegistrationDate: cells[8],
	}, nil
}

// parseInt accepts "34" as well as "34.0", which spreadsheet tools emit for
// integer columns that were once stored as floats.
func parseInt(column, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("column %s: invalid integer %q", column, s)
	}
	return int(f), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
