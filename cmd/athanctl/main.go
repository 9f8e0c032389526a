// athanctl reads a timetable file and prints the schedule of one day together
// with the prayer that is next at a given time.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/Nixie-Tech-LLC/athan/internal/athan"
	"github.com/Nixie-Tech-LLC/athan/internal/model"
	"github.com/Nixie-Tech-LLC/athan/internal/timetable"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type result struct {
	Month    int               `json:"month"`
	Day      int               `json:"day"`
	At       string            `json:"at"`
	Schedule model.DaySchedule `json:"schedule"`
	Next     model.EventEntry  `json:"next"`
	Selected bool              `json:"selected"`
}

func run(args []string, stdout io.Writer, now time.Time) error {
	var (
		filePath string
		month    int
		day      int
		at       string
		asJSON   bool
	)

	flagSet := pflag.NewFlagSet("athanctl", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVar(&filePath, "file", "", "timetable file (.xls, .xlsx or .csv)")
	flagSet.IntVar(&month, "month", int(now.Month()), "month to read, 1-12")
	flagSet.IntVar(&day, "day", now.Day(), "day of the month")
	flagSet.StringVar(&at, "at", now.Format("15:04"), "time of day as HH:MM")
	flagSet.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if filePath == "" {
		return errors.New("--file is required")
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("--month must be between 1 and 12, got %d", month)
	}
	hour, minute, err := athan.ParseClock(at)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	table, err := loadMonth(filePath, time.Month(month))
	if err != nil {
		return err
	}

	schedule := athan.ExtractDay(table, day)
	if schedule.IsEmpty() {
		return fmt.Errorf("no row for day %d in %s", day, time.Month(month))
	}
	next, sel, err := athan.NextEvent(schedule, athan.Selection{}, hour, minute)
	if err != nil {
		return err
	}

	res := result{
		Month:    month,
		Day:      day,
		At:       fmt.Sprintf("%02d:%02d", hour, minute),
		Schedule: schedule,
		Next:     next,
		Selected: sel.Valid,
	}
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printTable(stdout, res, athan.Board(schedule, sel))
}

func loadMonth(path string, month time.Month) (model.MonthTable, error) {
	format, err := timetable.FormatFromFilename(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	wb, err := timetable.Parse(data, format)
	if err != nil {
		return nil, err
	}
	if len(wb) == 1 {
		return wb[0], nil
	}
	table, ok := wb.Month(month)
	if !ok {
		return nil, fmt.Errorf("%s has no sheet for %s", path, month)
	}
	return table, nil
}

func printTable(w io.Writer, res result, prayers []model.Prayer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %d at %s\n", time.Month(res.Month), res.Day, res.At)
	for _, p := range prayers {
		mark := ""
		if p.Next {
			mark = "<- next"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\n", p.Name, p.Time, p.Period, mark)
	}
	if !res.Selected {
		fmt.Fprintln(tw, "no prayer left today")
	}
	return tw.Flush()
}
