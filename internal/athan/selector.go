package athan

import (
	"sync"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

// Selection is the remembered outcome of the last qualifying scan. The zero
// value means nothing has been selected yet for the current day.
type Selection struct {
	Index int  `json:"index"`
	Valid bool `json:"valid"`
}

// Slots builds the nine-slot sequence scanned by NextEvent. Headers and
// markers carry model.IgnoredHour so they never qualify.
func Slots(schedule model.DaySchedule) ([]model.EventEntry, error) {
	slots := []model.EventEntry{
		{Hour: model.IgnoredHour, Name: model.Header},
		{Hour: model.IgnoredHour, Name: model.Header},
		{Hour: model.IgnoredHour, Name: model.Imsak},
		{Name: model.Fajr},
		{Hour: model.IgnoredHour, Name: model.Chouruq},
		{Name: model.Dohr},
		{Name: model.Asr},
		{Name: model.Maghreb},
		{Name: model.Isha},
	}
	for i, slot := range slots {
		if slot.Ignored() {
			continue
		}
		parsed, err := parseEvent(schedule, slot.Name)
		if err != nil {
			return nil, err
		}
		slots[i] = parsed
	}
	return slots, nil
}

// NextEvent selects the next prayer for nowHour:nowMinute.
//
// An event is still next during its own minute. When the clock is past an
// event within that event's hour, the slot right after it is taken as is,
// even a marker. That rule is inherited behaviour and stays as is. When every
// event of the day has passed, prev is returned unchanged.
func NextEvent(schedule model.DaySchedule, prev Selection, nowHour, nowMinute int) (model.EventEntry, Selection, error) {
	slots, err := Slots(schedule)
	if err != nil {
		return model.EventEntry{}, prev, err
	}

	next := prev
	if next.Index < 0 || next.Index >= len(slots) {
		next = Selection{}
	}
	for i, slot := range slots {
		if slot.Ignored() {
			continue
		}
		if nowHour < slot.Hour || (nowHour == slot.Hour && nowMinute <= slot.Minute) {
			next = Selection{Index: i, Valid: true}
			break
		}
		if nowHour == slot.Hour {
			// roll forward by one without checking the following slot
			if i+1 < len(slots) {
				next = Selection{Index: i + 1, Valid: true}
			}
			break
		}
	}

	return slots[next.Index], next, nil
}

// Selector keeps the selection for one day between calls.
type Selector struct {
	mu        sync.Mutex
	selection Selection
}

// NewSelector starts from a previously saved selection, or the zero value.
func NewSelector(initial Selection) *Selector {
	return &Selector{selection: initial}
}

// Next runs NextEvent from the held selection and keeps the result. On error
// the held selection is left as it was.
func (s *Selector) Next(schedule model.DaySchedule, nowHour, nowMinute int) (model.EventEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, next, err := NextEvent(schedule, s.selection, nowHour, nowMinute)
	if err != nil {
		return model.EventEntry{}, err
	}
	s.selection = next
	return entry, nil
}

// Selection returns the current state.
func (s *Selector) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Reset forgets the selection; call it when the day changes.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.selection = Selection{}
	s.mu.Unlock()
}
