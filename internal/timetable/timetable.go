// Package timetable turns an uploaded prayer workbook into month tables.
package timetable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

type Format string

const (
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown timetable format")

// FormatFromFilename picks the parser from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls":
		return FormatXLS, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Workbook holds one month table per sheet, in sheet order. A yearly workbook
// has January as its first sheet.
type Workbook []model.MonthTable

// Month returns the sheet for m.
func (w Workbook) Month(m time.Month) (model.MonthTable, bool) {
	i := int(m) - 1
	if i < 0 || i >= len(w) {
		return nil, false
	}
	return w[i], true
}

// Parse reads every sheet of the workbook. Row positions are preserved, blank
// rows included, so that position N stays day N.
func Parse(data []byte, format Format) (Workbook, error) {
	switch format {
	case FormatXLS:
		return parseXLS(data)
	case FormatXLSX:
		return parseXLSX(data)
	case FormatCSV:
		table, err := parseCSV(data)
		if err != nil {
			return nil, err
		}
		return Workbook{table}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func parseXLS(data []byte) (Workbook, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("xls open error: %w", err)
	}

	out := make(Workbook, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			out = append(out, nil)
			continue
		}
		table := make(model.MonthTable, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				table = append(table, model.DayRow{})
				continue
			}
			fields := make(model.DayRow, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				fields[c] = strings.TrimSpace(row.Col(c))
			}
			table = append(table, fields)
		}
		log.Debug().Int("sheet", i).Int("rows", len(table)).Msg("xls sheet parsed")
		out = append(out, table)
	}
	return out, nil
}

func parseXLSX(data []byte) (Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx open error: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("xlsx close failed")
		}
	}()

	sheets := f.GetSheetList()
	out := make(Workbook, 0, len(sheets))
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", name, err)
		}
		table := make(model.MonthTable, 0, len(rows))
		for _, row := range rows {
			fields := make(model.DayRow, len(row))
			for c, v := range row {
				fields[c] = strings.TrimSpace(v)
			}
			table = append(table, fields)
		}
		log.Debug().Str("sheet", name).Int("rows", len(table)).Msg("xlsx sheet parsed")
		out = append(out, table)
	}
	return out, nil
}

func parseCSV(data []byte) (model.MonthTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read error: %w", err)
	}
	table := make(model.MonthTable, 0, len(records))
	for _, rec := range records {
		table = append(table, model.DayRow(rec))
	}
	return table, nil
}
