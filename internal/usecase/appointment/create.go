package appointment

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ActorID uint

	DoctorID    uint
	PatientID   uint
	ConditionID *uint

	Date      string
	StartTime string
	EndTime   string
	Reason    string
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	resolver *AvailabilityResolver
	audit    *audit.Dispatcher
	obs      Observer
}

func NewCreateAppointment(
	repo domain.Repository,
	resolver *AvailabilityResolver,
	audit *audit.Dispatcher,
	obs Observer,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		resolver: resolver,
		audit:    audit,
		obs:      obs,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {
	ctx, span := uc.obs.start(ctx, "create",
		attribute.Int("doctor.id", int(in.DoctorID)),
		attribute.String("date", in.Date),
	)
	defer func() { uc.obs.finish(span, "create", err) }()

	// --------------------------------------------------
	// 1) Request shape
	// --------------------------------------------------
	if in.DoctorID == 0 || in.PatientID == 0 || in.Date == "" ||
		in.StartTime == "" || in.EndTime == "" || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrMissingFields
	}
	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, err
	}
	slot, err := domain.ParseRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2) Participants
	// --------------------------------------------------
	if err := requireDoctor(ctx, uc.repo, in.DoctorID); err != nil {
		return nil, err
	}
	if err := requirePatient(ctx, uc.repo, in.PatientID); err != nil {
		return nil, err
	}
	if in.ConditionID != nil {
		if err := requireCondition(ctx, uc.repo, *in.ConditionID, in.PatientID); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3) Working day
	// --------------------------------------------------
	_, ok, err := uc.resolver.lookup(ctx, in.DoctorID, in.Date)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.reject(in, domain.ErrDoctorUnavailable)
		return nil, domain.ErrDoctorUnavailable
	}

	// --------------------------------------------------
	// 4) Conflict check + insert, serialized per doctor day
	// --------------------------------------------------
	ap = &models.Appointment{
		DoctorID:    in.DoctorID,
		PatientID:   in.PatientID,
		ConditionID: in.ConditionID,
		Date:        in.Date,
		StartTime:   slot.Start.String(),
		EndTime:     slot.End.String(),
		Status:      string(domain.InitialStatus()),
		Reason:      strings.TrimSpace(in.Reason),
		Notes:       in.Notes,
	}

	err = uc.repo.WithinDay(ctx, in.DoctorID, in.Date, func(tx domain.Repository) error {
		if err := NewConflictDetector(tx).assertFree(ctx, in.DoctorID, in.Date, slot, nil); err != nil {
			return err
		}
		return tx.InsertAppointment(ctx, ap)
	})
	if err != nil {
		if httperr.IsBusiness(err, domain.ErrSlotTaken.Error()) {
			uc.reject(in, err)
			return nil, err
		}
		if httperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	// --------------------------------------------------
	// 5) Audit
	// --------------------------------------------------
	actor := in.ActorID
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actor,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"doctor_id":  ap.DoctorID,
			"patient_id": ap.PatientID,
			"date":       ap.Date,
			"start_time": ap.StartTime,
			"end_time":   ap.EndTime,
		},
	})

	return ap, nil
}

func (uc *CreateAppointment) reject(in CreateAppointmentInput, reason error) {
	actor := in.ActorID
	uc.audit.Dispatch(audit.Event{
		ActorID: &actor,
		Action:  "appointment_rejected",
		Entity:  "appointment",
		Metadata: map[string]any{
			"reason":     httperr.CodeOf(reason),
			"doctor_id":  in.DoctorID,
			"date":       in.Date,
			"start_time": in.StartTime,
			"end_time":   in.EndTime,
		},
	})
}
