package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// ======================================================
// CONFLICT DETECTOR
// ======================================================

type ConflictDetector struct {
	repo domain.Repository
}

func NewConflictDetector(repo domain.Repository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// IsFree reports whether [start, end) on date overlaps none of the doctor's
// active appointments, ignoring excludeID.
func (d *ConflictDetector) IsFree(
	ctx context.Context,
	doctorID uint,
	date string,
	start domain.Clock,
	end domain.Clock,
	excludeID *uint,
) (bool, error) {
	existing, err := d.repo.FindByDoctorAndDate(ctx, doctorID, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("load appointments of doctor %d on %s: %w", doctorID, date, err)
	}

	conflict, err := domain.FindConflict(domain.Interval{Start: start, End: end}, existing)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

// assertFree turns a busy range into ErrSlotTaken.
func (d *ConflictDetector) assertFree(
	ctx context.Context,
	doctorID uint,
	date string,
	iv domain.Interval,
	excludeID *uint,
) error {
	free, err := d.IsFree(ctx, doctorID, date, iv.Start, iv.End, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return domain.ErrSlotTaken
	}
	return nil
}
