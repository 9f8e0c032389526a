package packets

import "github.com/Nixie-Tech-LLC/athan/internal/model"

// RESPONSES FOR /api/tv/athan/*

type TodayResponse struct {
	City     string            `json:"city"`
	Date     string            `json:"date"`
	Schedule model.DaySchedule `json:"schedule"`
	Next     model.EventEntry  `json:"next"`
	Selected bool              `json:"selected"`
	Prayers  []model.Prayer    `json:"prayers"`
}
