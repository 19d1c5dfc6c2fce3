package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel marks ap cancelled. It reports false, without touching ap, when the
// appointment was already cancelled.
func Cancel(ap *models.Appointment, now time.Time) (bool, error) {
	if Status(ap.Status) == StatusCancelled {
		return false, nil
	}
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return false, err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return true, nil
}

// Complete marks ap completed. Completing twice keeps the first CompletedAt.
func Complete(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status) == StatusCompleted {
		return nil
	}
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment) error {
	if Status(ap.Status) == StatusNoShow {
		return nil
	}
	if err := CanTransition(Status(ap.Status), StatusNoShow); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	return nil
}

// Transition moves ap to status through the matching domain action.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	switch to {
	case StatusCancelled:
		_, err := Cancel(ap, now)
		return err
	case StatusCompleted:
		return Complete(ap, now)
	case StatusNoShow:
		return MarkNoShow(ap)
	default:
		return CanTransition(Status(ap.Status), to)
	}
}
