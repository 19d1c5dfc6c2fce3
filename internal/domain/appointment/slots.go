package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	DefaultSlotWidth = 30
	MinSlotWidth     = 5
	MaxSlotWidth     = 720
)

type AvailabilityInput struct {
	DoctorID  uint
	Date      string
	SlotWidth int
}

type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SlotAvailability is the answer to a slot listing request.
type SlotAvailability struct {
	Available    bool       `json:"available"`
	Message      string     `json:"message,omitempty"`
	WorkingHours *Window    `json:"workingHours,omitempty"`
	Slots        []TimeSlot `json:"slots"`
}

func ValidateSlotWidth(width int) error {
	if width < MinSlotWidth || width > MaxSlotWidth {
		return ErrInvalidSlotWidth
	}
	return nil
}

// CandidateSlots steps through w in width-minute increments. A slot is only
// produced when it fits entirely inside the window.
func CandidateSlots(w Window, width int) ([]Interval, error) {
	if err := ValidateSlotWidth(width); err != nil {
		return nil, err
	}
	bounds, err := w.Interval()
	if err != nil {
		return nil, err
	}

	step := Clock(width)
	var out []Interval
	for cur := bounds.Start; cur+step <= bounds.End; cur += step {
		out = append(out, Interval{Start: cur, End: cur + step})
	}
	return out, nil
}

// FreeSlots returns the candidates of w that do not overlap any active
// appointment in existing, ascending by start time.
func FreeSlots(w Window, width int, existing []models.Appointment) ([]TimeSlot, error) {
	candidates, err := CandidateSlots(w, width)
	if err != nil {
		return nil, err
	}

	slots := make([]TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		conflict, err := FindConflict(c, existing)
		if err != nil {
			return nil, err
		}
		if conflict == nil {
			slots = append(slots, TimeSlot{StartTime: c.Start.String(), EndTime: c.End.String()})
		}
	}
	return slots, nil
}
