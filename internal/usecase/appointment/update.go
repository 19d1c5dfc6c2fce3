package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput is a patch: nil fields keep the stored value.
type UpdateAppointmentInput struct {
	ActorID uint
	ID      uint

	Date        *string
	StartTime   *string
	EndTime     *string
	Reason      *string
	Notes       *string
	ConditionID *uint
	Status      *string
}

func (in UpdateAppointmentInput) merged(ap *models.Appointment) (date, start, end string) {
	date, start, end = ap.Date, ap.StartTime, ap.EndTime
	if in.Date != nil {
		date = *in.Date
	}
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	return date, start, end
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo     domain.Repository
	resolver *AvailabilityResolver
	audit    *audit.Dispatcher
	obs      Observer
	now      func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	resolver *AvailabilityResolver,
	audit *audit.Dispatcher,
	obs Observer,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		resolver: resolver,
		audit:    audit,
		obs:      obs,
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// maxMoveRetries bounds how often an update restarts when another writer
// moved the appointment to a different day between the read and the lock.
const maxMoveRetries = 3

// errMoved restarts an update whose locked days no longer cover the row.
var errMoved = errors.New("appointment moved to another day")

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (out *models.Appointment, err error) {
	ctx, span := uc.obs.start(ctx, "update", attribute.Int("appointment.id", int(in.ID)))
	defer func() { uc.obs.finish(span, "update", err) }()

	// --------------------------------------------------
	// 1) Validate the patch itself
	// --------------------------------------------------
	var target domain.Status
	if in.Status != nil {
		if target, err = domain.ParseStatus(*in.Status); err != nil {
			return nil, err
		}
	}
	if in.Reason != nil && strings.TrimSpace(*in.Reason) == "" {
		return nil, domain.ErrMissingFields
	}

	for attempt := 1; ; attempt++ {
		var prev models.Appointment
		out, prev, err = uc.attempt(ctx, in, target)

		switch {
		case err == nil:
			uc.dispatch(in, &prev, out)
			return out, nil
		case errors.Is(err, errMoved):
			if attempt >= maxMoveRetries {
				return nil, domain.ErrConcurrentUpdate
			}
		case httperr.CodeOf(err) != "":
			return nil, err
		default:
			return nil, fmt.Errorf("update appointment %d: %w", in.ID, err)
		}
	}
}

// attempt runs one read-lock-write cycle. It returns the written row and a
// copy of the row as it was under the lock.
func (uc *UpdateAppointment) attempt(
	ctx context.Context,
	in UpdateAppointmentInput,
	target domain.Status,
) (*models.Appointment, models.Appointment, error) {

	current, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, models.Appointment{}, err
	}
	if in.ConditionID != nil {
		if err := requireCondition(ctx, uc.repo, *in.ConditionID, current.PatientID); err != nil {
			return nil, models.Appointment{}, err
		}
	}

	// --------------------------------------------------
	// 2) Fail fast on the unlocked read
	// --------------------------------------------------
	date, start, end := in.merged(current)
	if date != current.Date || start != current.StartTime || end != current.EndTime {
		if domain.Status(current.Status) != domain.StatusScheduled {
			return nil, models.Appointment{}, domain.ErrInvalidState
		}
		if _, err := domain.ParseDate(date); err != nil {
			return nil, models.Appointment{}, err
		}
		if _, err := domain.ParseRange(start, end); err != nil {
			return nil, models.Appointment{}, err
		}
		if date != current.Date {
			_, ok, err := uc.resolver.lookup(ctx, current.DoctorID, date)
			if err != nil {
				return nil, models.Appointment{}, err
			}
			if !ok {
				return nil, models.Appointment{}, domain.ErrDoctorUnavailable
			}
		}
	}

	// --------------------------------------------------
	// 3) Lock source and target day, then decide on the locked row
	// --------------------------------------------------
	var (
		out  *models.Appointment
		prev models.Appointment
	)
	err = uc.repo.WithinDays(ctx, current.DoctorID, []string{current.Date, date}, func(tx domain.Repository) error {
		ap, err := tx.GetAppointmentForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if ap.Date != current.Date {
			return errMoved
		}
		prev = *ap

		date, start, end := in.merged(ap)
		if date != ap.Date || start != ap.StartTime || end != ap.EndTime {
			if domain.Status(ap.Status) != domain.StatusScheduled {
				return domain.ErrInvalidState
			}
			slot, err := domain.ParseRange(start, end)
			if err != nil {
				return err
			}
			if err := NewConflictDetector(tx).assertFree(ctx, ap.DoctorID, date, slot, &ap.ID); err != nil {
				return err
			}
			ap.Date = date
			ap.StartTime = slot.Start.String()
			ap.EndTime = slot.End.String()
		}

		if in.Reason != nil {
			ap.Reason = strings.TrimSpace(*in.Reason)
		}
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		if in.ConditionID != nil {
			ap.ConditionID = in.ConditionID
		}
		if in.Status != nil {
			if err := domain.Transition(ap, target, uc.now()); err != nil {
				return err
			}
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		out = ap
		return nil
	})
	return out, prev, err
}

func (uc *UpdateAppointment) dispatch(in UpdateAppointmentInput, prev, out *models.Appointment) {
	rescheduled := prev.Date != out.Date || prev.StartTime != out.StartTime || prev.EndTime != out.EndTime

	actor := in.ActorID
	meta := map[string]any{"rescheduled": rescheduled}
	if rescheduled {
		meta["from"] = prev.Date + " " + prev.StartTime + "-" + prev.EndTime
		meta["to"] = out.Date + " " + out.StartTime + "-" + out.EndTime
	}
	if in.Status != nil {
		meta["status"] = out.Status
	}
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &out.ID,
		Metadata: meta,
	})
}
