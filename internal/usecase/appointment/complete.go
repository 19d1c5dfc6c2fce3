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

// statusChange moves a scheduled appointment to a terminal status.
type statusChange struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	obs    Observer
	now    func() time.Time
	op     string
	action string
	to     domain.Status
}

func (uc *statusChange) execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
) (out *models.Appointment, err error) {
	ctx, span := uc.obs.start(ctx, uc.op, attribute.Int("appointment.id", int(appointmentID)))
	defer func() { uc.obs.finish(span, uc.op, err) }()

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	err = uc.repo.WithinDay(ctx, ap.DoctorID, ap.Date, func(tx domain.Repository) error {
		fresh, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := domain.Transition(fresh, uc.to, uc.now()); err != nil {
			return err
		}
		out = fresh
		return tx.UpdateAppointment(ctx, fresh)
	})
	if err != nil {
		if httperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("%s appointment %d: %w", uc.op, appointmentID, err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   uc.action,
		Entity:   "appointment",
		EntityID: &out.ID,
	})

	return out, nil
}

// ======================================================
// COMPLETE
// ======================================================

type CompleteAppointment struct {
	statusChange
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	obs Observer,
) *CompleteAppointment {
	return &CompleteAppointment{statusChange{
		repo:   repo,
		audit:  audit,
		obs:    obs,
		now:    time.Now,
		op:     "complete",
		action: "appointment_completed",
		to:     domain.StatusCompleted,
	}}
}

func (uc *CompleteAppointment) Execute(ctx context.Context, actorID, appointmentID uint) (*models.Appointment, error) {
	return uc.execute(ctx, actorID, appointmentID)
}

// ======================================================
// NO-SHOW
// ======================================================

type MarkNoShow struct {
	statusChange
}

func NewMarkNoShow(
	repo domain.Repository,
	audit *audit.Dispatcher,
	obs Observer,
) *MarkNoShow {
	return &MarkNoShow{statusChange{
		repo:   repo,
		audit:  audit,
		obs:    obs,
		now:    time.Now,
		op:     "no_show",
		action: "appointment_no_show",
		to:     domain.StatusNoShow,
	}}
}

func (uc *MarkNoShow) Execute(ctx context.Context, actorID, appointmentID uint) (*models.Appointment, error) {
	return uc.execute(ctx, actorID, appointmentID)
}
