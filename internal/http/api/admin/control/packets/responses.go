package packets

import "github.com/Nixie-Tech-LLC/athan/internal/model"

type ImportTimetableResponse struct {
	Key    string `json:"key"`
	City   string `json:"city"`
	Months []int  `json:"months"`
}

type MonthListResponse struct {
	City   string `json:"city"`
	Months []int  `json:"months"`
}

type MonthTableResponse struct {
	City  string     `json:"city"`
	Month int        `json:"month"`
	Rows  [][]string `json:"rows"`
}

// DayResponse is the extracted row of one day; Found is false when the month
// has no row at that position.
type DayResponse struct {
	City     string            `json:"city"`
	Month    int               `json:"month"`
	Day      int               `json:"day"`
	Found    bool              `json:"found"`
	Schedule model.DaySchedule `json:"schedule"`
}
