package athan

import (
	"fmt"
	"strings"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

var boardOrder = []struct {
	name   model.EventName
	column int
	marker bool
}{
	{model.Imsak, model.ColumnImsak, true},
	{model.Fajr, model.ColumnFajr, false},
	{model.Chouruq, model.ColumnChouruq, true},
	{model.Dohr, model.ColumnDohr, false},
	{model.Asr, model.ColumnAsr, false},
	{model.Maghreb, model.ColumnMaghreb, false},
	{model.Isha, model.ColumnIsha, false},
}

// Board lists the seven events of the day for display, flagging the one at the
// selected slot. Slot indexes line up with the timetable columns, so a
// selection that rolled onto chouruq flags chouruq.
func Board(schedule model.DaySchedule, sel Selection) []model.Prayer {
	prayers := make([]model.Prayer, 0, len(boardOrder))
	for _, ev := range boardOrder {
		raw := schedule.Field(ev.name)
		t, period := to12Hour(raw)
		prayers = append(prayers, model.Prayer{
			Name:   strings.ToUpper(string(ev.name)),
			Time:   t,
			Period: period,
			Marker: ev.marker,
			Next:   sel.Valid && sel.Index == ev.column,
		})
	}
	return prayers
}

// converts "17:30" → ("05:30","PM"); unreadable text is shown as written
func to12Hour(raw string) (string, string) {
	h, m, err := ParseClock(raw)
	if err != nil {
		return raw, ""
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
		if h > 12 {
			h -= 12
		}
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d", h, m), period
}
