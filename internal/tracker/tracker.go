// Package tracker keeps today's prayer schedule and next-prayer selection for
// one city, refreshed by a periodic tick and read by the HTTP handlers.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/athan"
	"github.com/Nixie-Tech-LLC/athan/internal/db"
	"github.com/Nixie-Tech-LLC/athan/internal/metrics"
	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

// ErrNoSchedule means the month table has no row for today.
var ErrNoSchedule = errors.New("no timetable row for today")

type MonthSource interface {
	GetMonthTable(ctx context.Context, city string, month time.Month) (model.MonthTable, error)
}

type SelectionCache interface {
	LoadSelection(ctx context.Context, city string, date time.Time) (athan.Selection, bool, error)
	SaveSelection(ctx context.Context, city string, date time.Time, sel athan.Selection) error
}

type Publisher interface {
	Publish(snap model.Snapshot) error
}

// Config wires a Tracker. Cache, Publisher and Metrics are optional.
type Config struct {
	City      string
	Source    MonthSource
	Cache     SelectionCache
	Publisher Publisher
	Metrics   *metrics.Metrics
}

type Tracker struct {
	cfg Config

	mu        sync.Mutex
	date      string
	schedule  model.DaySchedule
	selection athan.Selection
	next      model.EventEntry
	announced bool
	// set when the held day must be read again even though the date is unchanged
	reload bool
}

func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

func (t *Tracker) City() string { return t.cfg.City }

// Refresh re-extracts the schedule when the date of now differs from the one
// held, then selects the next prayer for now's hour and minute. Screens are
// notified only when the selection moves.
func (t *Tracker) Refresh(ctx context.Context, now time.Time) (model.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if date := now.Format(time.DateOnly); date != t.date || t.reload {
		if err := t.loadDay(ctx, now); err != nil {
			return t.snapshotLocked(), err
		}
	}
	if t.schedule.IsEmpty() {
		return t.snapshotLocked(), fmt.Errorf("%w: %s", ErrNoSchedule, t.date)
	}

	entry, next, err := athan.NextEvent(t.schedule, t.selection, now.Hour(), now.Minute())
	if err != nil {
		var malformed *athan.MalformedTimeError
		if errors.As(err, &malformed) {
			t.cfg.Metrics.ObserveMalformedTime(string(malformed.Field))
		}
		return t.snapshotLocked(), err
	}

	moved := next != t.selection
	t.selection = next
	t.next = entry
	snap := t.snapshotLocked()

	if moved || !t.announced {
		t.announced = true
		t.cfg.Metrics.ObserveSelection(string(entry.Name))
		log.Info().
			Str("city", t.cfg.City).
			Str("next", string(entry.Name)).
			Int("index", next.Index).
			Msg("next prayer selected")

		if t.cfg.Cache != nil {
			if err := t.cfg.Cache.SaveSelection(ctx, t.cfg.City, now, next); err != nil {
				log.Warn().Err(err).Msg("failed to persist selection")
			}
		}
		if t.cfg.Publisher != nil {
			if err := t.cfg.Publisher.Publish(snap); err != nil {
				log.Warn().Err(err).Msg("failed to publish snapshot")
			}
		}
	}
	return snap, nil
}

// Invalidate makes the next Refresh reload today's row, e.g. after an import.
// The current day stays visible until then.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	t.reload = true
	t.mu.Unlock()
}

func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Board lists today's events for display with the selected one flagged.
func (t *Tracker) Board() []model.Prayer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return athan.Board(t.schedule, t.selection)
}

// a new day starts from the saved selection of that date, if any, or from nothing.
// Nothing of the previous day survives, even when the month cannot be read.
func (t *Tracker) loadDay(ctx context.Context, now time.Time) error {
	t.date = now.Format(time.DateOnly)
	t.schedule = model.DaySchedule{}
	t.selection = athan.Selection{}
	t.next = model.EventEntry{}
	t.announced = false
	t.reload = false

	table, err := t.cfg.Source.GetMonthTable(ctx, t.cfg.City, now.Month())
	if errors.Is(err, db.ErrNoTimetable) {
		log.Warn().Str("city", t.cfg.City).Int("month", int(now.Month())).Msg("no timetable imported for this month")
		return nil
	}
	if err != nil {
		// retried on the next tick
		t.reload = true
		log.Error().Err(err).Str("city", t.cfg.City).Int("month", int(now.Month())).Msg("failed to load month table")
		return err
	}

	t.schedule = athan.ExtractDay(table, now.Day())

	if t.schedule.IsEmpty() {
		log.Warn().Str("city", t.cfg.City).Str("date", t.date).Msg("no timetable row for today")
		return nil
	}

	if t.cfg.Cache != nil {
		sel, ok, err := t.cfg.Cache.LoadSelection(ctx, t.cfg.City, now)
		if err != nil {
			log.Warn().Err(err).Msg("failed to restore selection")
		} else if ok {
			t.selection = sel
		}
	}
	log.Info().Str("city", t.cfg.City).Str("date", t.date).Msg("day schedule loaded")
	return nil
}

func (t *Tracker) snapshotLocked() model.Snapshot {
	return model.Snapshot{
		City:     t.cfg.City,
		Date:     t.date,
		Schedule: t.schedule,
		Next:     t.next,
		Index:    t.selection.Index,
		Selected: t.selection.Valid,
	}
}
