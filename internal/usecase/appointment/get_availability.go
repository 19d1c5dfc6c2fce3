package appointment

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// ======================================================
// SLOT GENERATOR
// ======================================================

type GetAvailability struct {
	repo         domain.Repository
	resolver     *AvailabilityResolver
	defaultWidth int
	obs          Observer
}

func NewGetAvailability(
	repo domain.Repository,
	resolver *AvailabilityResolver,
	defaultWidth int,
	obs Observer,
) *GetAvailability {
	if defaultWidth <= 0 {
		defaultWidth = domain.DefaultSlotWidth
	}
	return &GetAvailability{
		repo:         repo,
		resolver:     resolver,
		defaultWidth: defaultWidth,
		obs:          obs,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (res *domain.SlotAvailability, err error) {
	ctx, span := uc.obs.start(ctx, "slots",
		attribute.Int("doctor.id", int(in.DoctorID)),
		attribute.String("date", in.Date),
	)
	defer func() { uc.obs.finish(span, "slots", err) }()

	began := time.Now()
	defer func() { uc.obs.Metrics.ObserveSlotGeneration(time.Since(began).Seconds()) }()

	width := in.SlotWidth
	if width == 0 {
		width = uc.defaultWidth
	}
	if err := domain.ValidateSlotWidth(width); err != nil {
		return nil, err
	}
	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, err
	}

	window, ok, err := uc.resolver.ResolveWindow(ctx, in.DoctorID, in.Date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &domain.SlotAvailability{
			Available: false,
			Message:   "Doctor is not available on this day",
			Slots:     []domain.TimeSlot{},
		}, nil
	}

	existing, err := uc.repo.FindByDoctorAndDate(ctx, in.DoctorID, in.Date, nil)
	if err != nil {
		return nil, fmt.Errorf("load appointments of doctor %d on %s: %w", in.DoctorID, in.Date, err)
	}

	slots, err := domain.FreeSlots(window, width, existing)
	if err != nil {
		return nil, err
	}

	return &domain.SlotAvailability{
		Available:    true,
		WorkingHours: &window,
		Slots:        slots,
	}, nil
}
