package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Window is the working-hours window of a doctor on one day.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w Window) Interval() (Interval, error) {
	return ParseRange(w.Start, w.End)
}

// WindowFor picks the entry whose day matches the weekday of date.
func WindowFor(entries []models.DoctorAvailability, date time.Time) (Window, bool) {
	day := Weekday(date)
	for _, e := range entries {
		if e.Day == day {
			return Window{Start: e.StartTime, End: e.EndTime}, true
		}
	}
	return Window{}, false
}

// ValidateAvailability checks every entry and allows at most one entry per
// weekday.
func ValidateAvailability(entries []models.DoctorAvailability) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !IsWeekday(e.Day) {
			return ErrInvalidWeekday
		}
		if seen[e.Day] {
			return ErrDuplicateWeekday
		}
		seen[e.Day] = true

		if _, err := ParseRange(e.StartTime, e.EndTime); err != nil {
			return err
		}
	}
	return nil
}
