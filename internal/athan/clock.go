package athan

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

// ErrMalformedTime matches every MalformedTimeError through errors.Is.
var ErrMalformedTime = errors.New("malformed time")

// MalformedTimeError names the schedule field whose text is not a time of day.
type MalformedTimeError struct {
	Field model.EventName
	Value string
	Err   error
}

func (e *MalformedTimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed time %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: malformed time %q", e.Field, e.Value)
}

func (e *MalformedTimeError) Unwrap() error { return e.Err }

func (e *MalformedTimeError) Is(target error) bool {
	return target == ErrMalformedTime
}

var clockSeparator = regexp.MustCompile(`:|h`)

// ParseClock reads "HH:MM" or "HHhMM" into hour and minute.
func ParseClock(value string) (int, int, error) {
	parts := clockSeparator.Split(strings.TrimSpace(value), -1)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("expected HH:MM or HHhMM")
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("hour: %w", err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("minute: %w", err)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute %d out of range", minute)
	}
	return hour, minute, nil
}

// parseEvent builds the slot for one named field of the schedule.
func parseEvent(schedule model.DaySchedule, name model.EventName) (model.EventEntry, error) {
	raw := schedule.Field(name)
	hour, minute, err := ParseClock(raw)
	if err != nil {
		return model.EventEntry{}, &MalformedTimeError{Field: name, Value: raw, Err: err}
	}
	return model.EventEntry{Hour: hour, Minute: minute, Name: name}, nil
}
