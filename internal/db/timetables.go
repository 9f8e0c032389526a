package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

// returned by GetMonthTable when nothing was imported for that month
var ErrNoTimetable = errors.New("no timetable for month")

type timetableRow struct {
	RowIndex int            `db:"row_index"`
	Fields   pq.StringArray `db:"fields"`
}

// replaces every stored row of (city, month) with table, keeping row positions.
func (s *pgStore) SaveMonthTable(ctx context.Context, city string, month time.Month, table model.MonthTable) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("SaveMonthTable begin failed")
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM timetable_rows WHERE city = $1 AND month = $2;`,
		city, int(month),
	); err != nil {
		log.Error().Err(err).Str("city", city).Int("month", int(month)).Msg("SaveMonthTable delete failed")
		return err
	}

	const q = `
	INSERT INTO timetable_rows (city, month, row_index, fields, imported_at)
	VALUES ($1, $2, $3, $4, now());`
	for i, row := range table {
		fields := pq.StringArray(row)
		if fields == nil {
			fields = pq.StringArray{}
		}
		if _, err = tx.ExecContext(ctx, q, city, int(month), i, fields); err != nil {
			log.Error().Err(err).Str("city", city).Int("month", int(month)).Int("row", i).Msg("SaveMonthTable insert failed")
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("SaveMonthTable commit failed")
		return err
	}
	return nil
}

// rebuilds the positional month table; missing positions become empty rows.
func (s *pgStore) GetMonthTable(ctx context.Context, city string, month time.Month) (model.MonthTable, error) {
	var rows []timetableRow
	const q = `
	SELECT row_index, fields
	  FROM timetable_rows
	 WHERE city = $1 AND month = $2
	 ORDER BY row_index;`
	if err := s.db.SelectContext(ctx, &rows, q, city, int(month)); err != nil {
		log.Error().Err(err).Str("city", city).Int("month", int(month)).Msg("GetMonthTable failed")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoTimetable, city, month)
	}

	table := make(model.MonthTable, rows[len(rows)-1].RowIndex+1)
	for _, r := range rows {
		if r.RowIndex < 0 {
			continue
		}
		table[r.RowIndex] = model.DayRow(r.Fields)
	}
	return table, nil
}

func (s *pgStore) ListMonths(ctx context.Context, city string) ([]time.Month, error) {
	var months []int
	const q = `
	SELECT DISTINCT month
	  FROM timetable_rows
	 WHERE city = $1
	 ORDER BY month;`
	if err := s.db.SelectContext(ctx, &months, q, city); err != nil {
		log.Error().Err(err).Str("city", city).Msg("ListMonths failed")
		return nil, err
	}
	out := make([]time.Month, 0, len(months))
	for _, m := range months {
		out = append(out, time.Month(m))
	}
	return out, nil
}
