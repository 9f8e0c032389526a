// Package athan extracts a day from a monthly prayer timetable and selects
// the next prayer of that day.
package athan

import "github.com/Nixie-Tech-LLC/athan/internal/model"

// ExtractDay returns the seven time fields of the row whose position equals
// day. Every row is visited and a later match overwrites an earlier one; a day
// with no row yields an empty schedule. Row 0 is the sheet header, so day 0
// and below never match.
func ExtractDay(table model.MonthTable, day int) model.DaySchedule {
	var out model.DaySchedule
	if day <= 0 {
		return out
	}
	for i, row := range table {
		if i != day {
			continue
		}
		out = model.DaySchedule{
			Imsak:   field(row, model.ColumnImsak),
			Fajr:    field(row, model.ColumnFajr),
			Chouruq: field(row, model.ColumnChouruq),
			Dohr:    field(row, model.ColumnDohr),
			Asr:     field(row, model.ColumnAsr),
			Maghreb: field(row, model.ColumnMaghreb),
			Isha:    field(row, model.ColumnIsha),
		}
	}
	return out
}

// short rows read as empty fields
func field(row model.DayRow, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}
