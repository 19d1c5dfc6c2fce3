package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AvailabilityProvider returns the weekly working hours of a doctor.
type AvailabilityProvider interface {
	Availability(ctx context.Context, doctorID uint) ([]models.DoctorAvailability, error)
}

type AvailabilityStore interface {
	AvailabilityProvider

	ReplaceAvailability(
		ctx context.Context,
		doctorID uint,
		entries []models.DoctorAvailability,
	) error
}

// ListFilter narrows appointment listings. Zero values are ignored.
type ListFilter struct {
	DoctorID  uint
	PatientID uint
	Status    Status
	StartDate string
	EndDate   string
}

type Repository interface {
	// -------- Participants --------
	DoctorExists(ctx context.Context, doctorID uint) (bool, error)
	PatientExists(ctx context.Context, patientID uint) (bool, error)
	ConditionBelongsTo(ctx context.Context, conditionID uint, patientID uint) (bool, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// GetAppointmentForUpdate reads the row and holds it until the
	// surrounding transaction ends. Use it inside WithinDay/WithinDays.
	GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error)

	// FindByDoctorAndDate returns the non-cancelled appointments of the
	// doctor on date, skipping excludeID when set.
	FindByDoctorAndDate(
		ctx context.Context,
		doctorID uint,
		date string,
		excludeID *uint,
	) ([]models.Appointment, error)

	InsertAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)

	// WithinDay runs fn serialized against every other WithinDay call for
	// the same doctor and date. The Repository handed to fn shares the
	// surrounding transaction.
	WithinDay(
		ctx context.Context,
		doctorID uint,
		date string,
		fn func(tx Repository) error,
	) error

	// WithinDays is WithinDay over several dates of one doctor. The day
	// locks are taken in a fixed order so concurrent callers cannot
	// deadlock.
	WithinDays(
		ctx context.Context,
		doctorID uint,
		dates []string,
		fn func(tx Repository) error,
	) error
}
