package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Interval is a half-open [Start, End) range of a day.
type Interval struct {
	Start Clock
	End   Clock
}

// Overlaps treats touching intervals as disjoint.
func (i Interval) Overlaps(o Interval) bool {
	return !(i.End <= o.Start || o.End <= i.Start)
}

func IntervalOf(ap models.Appointment) (Interval, error) {
	iv, err := ParseRange(ap.StartTime, ap.EndTime)
	if err != nil {
		return Interval{}, fmt.Errorf("appointment %d has corrupt times %q-%q: %w", ap.ID, ap.StartTime, ap.EndTime, err)
	}
	return iv, nil
}

// FindConflict returns the first active appointment overlapping candidate, or
// nil when the candidate is free.
func FindConflict(candidate Interval, existing []models.Appointment) (*models.Appointment, error) {
	for i := range existing {
		if !Status(existing[i].Status).Active() {
			continue
		}
		iv, err := IntervalOf(existing[i])
		if err != nil {
			return nil, err
		}
		if candidate.Overlaps(iv) {
			return &existing[i], nil
		}
	}
	return nil, nil
}
