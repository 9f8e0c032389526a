package model

// EventName identifies a column of the monthly timetable.
type EventName string

const (
	Header  EventName = "header"
	Imsak   EventName = "imsak"
	Fajr    EventName = "fajr"
	Chouruq EventName = "chouruq"
	Dohr    EventName = "dohr"
	Asr     EventName = "asr"
	Maghreb EventName = "maghreb"
	Isha    EventName = "isha"
)

// column positions of each event inside a DayRow
const (
	ColumnImsak   = 2
	ColumnFajr    = 3
	ColumnChouruq = 4
	ColumnDohr    = 5
	ColumnAsr     = 6
	ColumnMaghreb = 7
	ColumnIsha    = 8
)

// IgnoredHour marks slots that can never be the next event.
const IgnoredHour = -1

// DayRow is one line of a month sheet, one text field per column.
type DayRow []string

// MonthTable holds the rows of a month sheet. The row at position N describes
// day N of the month; position 0 is the sheet header.
type MonthTable []DayRow

// DaySchedule is the seven time fields for one calendar day, as written in the
// sheet ("05:12" or "05h12").
type DaySchedule struct {
	Imsak   string `json:"imsak"`
	Fajr    string `json:"fajr"`
	Chouruq string `json:"chouruq"`
	Dohr    string `json:"dohr"`
	Asr     string `json:"asr"`
	Maghreb string `json:"maghreb"`
	Isha    string `json:"isha"`
}

// IsEmpty reports whether no field was found for the requested day.
func (d DaySchedule) IsEmpty() bool {
	return d == DaySchedule{}
}

// Field returns the raw text for an event name.
func (d DaySchedule) Field(name EventName) string {
	switch name {
	case Imsak:
		return d.Imsak
	case Fajr:
		return d.Fajr
	case Chouruq:
		return d.Chouruq
	case Dohr:
		return d.Dohr
	case Asr:
		return d.Asr
	case Maghreb:
		return d.Maghreb
	case Isha:
		return d.Isha
	}
	return ""
}

// EventEntry is one slot of the selection sequence.
type EventEntry struct {
	Hour   int       `json:"hour"`
	Minute int       `json:"minute"`
	Name   EventName `json:"name"`
}

// Ignored reports whether the slot is a header or a marker.
func (e EventEntry) Ignored() bool {
	return e.Hour == IgnoredHour
}

type Prayer struct {
	Name   string `json:"name"`   // “FAJR”, “DOHR”, …
	Time   string `json:"time"`   // “05:12”
	Period string `json:"period"` // “AM” or “PM”
	Marker bool   `json:"marker"` // imsak and chouruq are shown but never next
	Next   bool   `json:"next"`
}

type AthanPageData struct {
	City    string
	Date    string // “AUGUST 5, 2025”
	Prayers []Prayer
}

// Snapshot is what screens receive: the day's times and the selected event.
type Snapshot struct {
	City     string      `json:"city"`
	Date     string      `json:"date"` // 2006-01-02
	Schedule DaySchedule `json:"schedule"`
	Next     EventEntry  `json:"next"`
	Index    int         `json:"index"`
	Selected bool        `json:"selected"`
}
