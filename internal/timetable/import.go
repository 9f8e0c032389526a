package timetable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

var (
	// ErrMonthRequired is returned for single-sheet files imported without a month.
	ErrMonthRequired = errors.New("month is required for a single-month timetable")
	// ErrUnreadable wraps every parse failure of the uploaded file.
	ErrUnreadable = errors.New("unreadable timetable")
)

type Saver interface {
	SaveMonthTable(ctx context.Context, city string, month time.Month, table model.MonthTable) error
}

// Import parses data and stores its months for city. With month zero every
// sheet of a yearly workbook is stored under its position (first sheet is
// January). With a month set, only that month is stored: the single sheet of
// a one-month file, or the matching sheet of a yearly workbook.
func Import(ctx context.Context, saver Saver, city string, data []byte, format Format, month time.Month) ([]time.Month, error) {
	wb, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(wb) == 0 {
		return nil, fmt.Errorf("%w: no sheet", ErrUnreadable)
	}

	if month != 0 {
		if month < time.January || month > time.December {
			return nil, fmt.Errorf("invalid month %d", month)
		}
		table := wb[0]
		if len(wb) > 1 {
			var ok bool
			if table, ok = wb.Month(month); !ok {
				return nil, fmt.Errorf("%w: no sheet for %s", ErrUnreadable, month)
			}
		}
		if err := saver.SaveMonthTable(ctx, city, month, table); err != nil {
			return nil, fmt.Errorf("save %s: %w", month, err)
		}
		return []time.Month{month}, nil
	}

	if format == FormatCSV || len(wb) == 1 {
		return nil, ErrMonthRequired
	}

	var saved []time.Month
	for i, table := range wb {
		m := time.Month(i + 1)
		if m > time.December {
			log.Warn().Int("sheets", len(wb)).Msg("ignoring sheets after the twelfth")
			break
		}
		if len(table) == 0 {
			continue
		}
		if err := saver.SaveMonthTable(ctx, city, m, table); err != nil {
			return saved, fmt.Errorf("save %s: %w", m, err)
		}
		saved = append(saved, m)
	}
	log.Info().Str("city", city).Int("months", len(saved)).Msg("timetable imported")
	return saved, nil
}
