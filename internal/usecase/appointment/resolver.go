package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// ======================================================
// AVAILABILITY RESOLVER
// ======================================================

type AvailabilityResolver struct {
	repo     domain.Repository
	provider domain.AvailabilityProvider
}

func NewAvailabilityResolver(
	repo domain.Repository,
	provider domain.AvailabilityProvider,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		repo:     repo,
		provider: provider,
	}
}

// ResolveWindow returns the working hours of the doctor on date, with ok
// false when the doctor does not work that weekday.
func (r *AvailabilityResolver) ResolveWindow(
	ctx context.Context,
	doctorID uint,
	date string,
) (domain.Window, bool, error) {
	if err := requireDoctor(ctx, r.repo, doctorID); err != nil {
		return domain.Window{}, false, err
	}
	return r.lookup(ctx, doctorID, date)
}

func (r *AvailabilityResolver) lookup(
	ctx context.Context,
	doctorID uint,
	date string,
) (domain.Window, bool, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return domain.Window{}, false, err
	}

	entries, err := r.provider.Availability(ctx, doctorID)
	if err != nil {
		return domain.Window{}, false, fmt.Errorf("load availability of doctor %d: %w", doctorID, err)
	}

	w, ok := domain.WindowFor(entries, day)
	return w, ok, nil
}

func requireDoctor(ctx context.Context, repo domain.Repository, doctorID uint) error {
	ok, err := repo.DoctorExists(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("lookup doctor %d: %w", doctorID, err)
	}
	if !ok {
		return domain.ErrDoctorNotFound
	}
	return nil
}

func requirePatient(ctx context.Context, repo domain.Repository, patientID uint) error {
	ok, err := repo.PatientExists(ctx, patientID)
	if err != nil {
		return fmt.Errorf("lookup patient %d: %w", patientID, err)
	}
	if !ok {
		return domain.ErrPatientNotFound
	}
	return nil
}

func requireCondition(ctx context.Context, repo domain.Repository, conditionID, patientID uint) error {
	ok, err := repo.ConditionBelongsTo(ctx, conditionID, patientID)
	if err != nil {
		return fmt.Errorf("lookup condition %d: %w", conditionID, err)
	}
	if !ok {
		return domain.ErrConditionNotFound
	}
	return nil
}
