package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Terminal statuses never transition again.
func (s Status) Terminal() bool {
	return s != StatusScheduled
}

// Active appointments take part in conflict detection.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition allows scheduled → {completed, cancelled, no-show} and the
// identity transition. Everything else is invalid_state.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from != StatusScheduled {
		return ErrInvalidState
	}
	switch to {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return nil
	}
	return ErrInvalidState
}

func InitialStatus() Status {
	return StatusScheduled
}
