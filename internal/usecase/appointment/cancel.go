package appointment

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	obs   Observer
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	obs Observer,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		obs:   obs,
		now:   time.Now,
	}
}

// Execute cancels the appointment. Cancelling an already cancelled
// appointment succeeds without writing.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
) (out *models.Appointment, err error) {
	ctx, span := uc.obs.start(ctx, "cancel", attribute.Int("appointment.id", int(appointmentID)))
	defer func() { uc.obs.finish(span, "cancel", err) }()

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if domain.Status(ap.Status) == domain.StatusCancelled {
		return ap, nil
	}

	var changed bool
	err = uc.repo.WithinDay(ctx, ap.DoctorID, ap.Date, func(tx domain.Repository) error {
		fresh, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		if changed, err = domain.Cancel(fresh, uc.now()); err != nil {
			return err
		}
		out = fresh
		if !changed {
			return nil
		}
		return tx.UpdateAppointment(ctx, fresh)
	})
	if err != nil {
		if httperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("cancel appointment %d: %w", appointmentID, err)
	}

	if changed {
		uc.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "appointment_cancelled",
			Entity:   "appointment",
			EntityID: &out.ID,
		})
	}

	return out, nil
}
