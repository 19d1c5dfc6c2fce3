package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	doctorID  uint = 1
	patientID uint = 10

	monday   = "2024-06-10"
	tuesday  = "2024-06-11"
	saturday = "2024-06-15"
)

type fixture struct {
	store    *memory.Store
	create   *CreateAppointment
	update   *UpdateAppointment
	cancel   *CancelAppointment
	complete *CompleteAppointment
	noShow   *MarkNoShow
	slots    *GetAvailability
	list     *ListAppointments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	var week []models.DoctorAvailability
	for _, d := range domain.Weekdays[:5] {
		week = append(week, models.DoctorAvailability{Day: d, StartTime: "09:00", EndTime: "17:00"})
	}
	store.AddDoctor(doctorID, week...)
	store.AddPatient(patientID)
	store.AddCondition(100, patientID)

	resolver := NewAvailabilityResolver(store, store)
	obs := Observer{}

	return &fixture{
		store:    store,
		create:   NewCreateAppointment(store, resolver, nil, obs),
		update:   NewUpdateAppointment(store, resolver, nil, obs),
		cancel:   NewCancelAppointment(store, nil, obs),
		complete: NewCompleteAppointment(store, nil, obs),
		noShow:   NewMarkNoShow(store, nil, obs),
		slots:    NewGetAvailability(store, resolver, 30, obs),
		list:     NewListAppointments(store),
	}
}

func (f *fixture) book(t *testing.T, date, start, end string) (*models.Appointment, error) {
	t.Helper()
	return f.create.Execute(context.Background(), CreateAppointmentInput{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    "checkup",
	})
}

func strp(s string) *string { return &s }

// ======================================================
// CREATE
// ======================================================

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	ap, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)
	assert.NotZero(t, ap.ID)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, "09:00", ap.StartTime)
}

func TestCreateAllowsTouchingAppointments(t *testing.T) {
	f := newFixture(t)

	_, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)
	_, err = f.book(t, monday, "09:30", "10:00")
	require.NoError(t, err)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)

	_, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	_, err = f.book(t, monday, "09:15", "09:45")
	assert.ErrorIs(t, err, domain.ErrSlotTaken)
}

func TestCreateOnNonWorkingDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.book(t, saturday, "10:00", "10:30")
	assert.ErrorIs(t, err, domain.ErrDoctorUnavailable)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateAppointmentInput
		err  error
	}{
		{"missing reason", CreateAppointmentInput{DoctorID: doctorID, PatientID: patientID, Date: monday, StartTime: "09:00", EndTime: "09:30"}, domain.ErrMissingFields},
		{"bad date", CreateAppointmentInput{DoctorID: doctorID, PatientID: patientID, Date: "10-06-2024", StartTime: "09:00", EndTime: "09:30", Reason: "x"}, domain.ErrInvalidDate},
		{"bad time", CreateAppointmentInput{DoctorID: doctorID, PatientID: patientID, Date: monday, StartTime: "9am", EndTime: "09:30", Reason: "x"}, domain.ErrInvalidTime},
		{"inverted", CreateAppointmentInput{DoctorID: doctorID, PatientID: patientID, Date: monday, StartTime: "10:00", EndTime: "09:30", Reason: "x"}, domain.ErrInvalidTimeRange},
		{"unknown doctor", CreateAppointmentInput{DoctorID: 99, PatientID: patientID, Date: monday, StartTime: "09:00", EndTime: "09:30", Reason: "x"}, domain.ErrDoctorNotFound},
		{"unknown patient", CreateAppointmentInput{DoctorID: doctorID, PatientID: 99, Date: monday, StartTime: "09:00", EndTime: "09:30", Reason: "x"}, domain.ErrPatientNotFound},
		{"foreign condition", CreateAppointmentInput{DoctorID: doctorID, PatientID: patientID, ConditionID: func() *uint { v := uint(5); return &v }(), Date: monday, StartTime: "09:00", EndTime: "09:30", Reason: "x"}, domain.ErrConditionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(ctx, tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestConcurrentIdenticalCreates(t *testing.T) {
	f := newFixture(t)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		taken   int
		barrier = make(chan struct{})
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-barrier
			_, err := f.book(t, monday, "11:00", "11:30")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrSlotTaken):
				taken++
			}
		}()
	}
	close(barrier)
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, taken)
}

func TestNonOverlapInvariant(t *testing.T) {
	f := newFixture(t)

	ranges := [][2]string{
		{"09:00", "09:30"}, {"09:15", "09:45"}, {"09:30", "10:30"}, {"10:00", "10:15"},
		{"10:30", "11:00"}, {"08:00", "09:05"}, {"10:45", "11:15"}, {"11:00", "12:00"},
	}
	for _, r := range ranges {
		_, _ = f.book(t, monday, r[0], r[1])
	}

	booked, err := f.store.FindByDoctorAndDate(context.Background(), doctorID, monday, nil)
	require.NoError(t, err)
	require.NotEmpty(t, booked)

	for i := range booked {
		a, err := domain.IntervalOf(booked[i])
		require.NoError(t, err)
		for j := i + 1; j < len(booked); j++ {
			b, err := domain.IntervalOf(booked[j])
			require.NoError(t, err)
			assert.False(t, a.Overlaps(b), "%v overlaps %v", booked[i], booked[j])
		}
	}
}

// ======================================================
// UPDATE
// ======================================================

func TestUpdateExcludesItself(t *testing.T) {
	f := newFixture(t)
	ap, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	got, err := f.update.Execute(context.Background(), UpdateAppointmentInput{
		ID:      ap.ID,
		EndTime: strp("09:45"),
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, "09:45", got.EndTime)
}

func TestUpdateRejectsConflictAndKeepsRow(t *testing.T) {
	f := newFixture(t)
	_, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)
	second, err := f.book(t, monday, "10:00", "10:30")
	require.NoError(t, err)

	_, err = f.update.Execute(context.Background(), UpdateAppointmentInput{
		ID:        second.ID,
		StartTime: strp("09:15"),
		Reason:    strp("changed"),
	})
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	stored, err := f.store.GetAppointment(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", stored.StartTime)
	assert.Equal(t, "checkup", stored.Reason)
}

func TestUpdateMovesToAnotherDay(t *testing.T) {
	f := newFixture(t)
	ap, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	got, err := f.update.Execute(context.Background(), UpdateAppointmentInput{ID: ap.ID, Date: strp(tuesday)})
	require.NoError(t, err)
	assert.Equal(t, tuesday, got.Date)

	_, err = f.update.Execute(context.Background(), UpdateAppointmentInput{ID: ap.ID, Date: strp(saturday)})
	assert.ErrorIs(t, err, domain.ErrDoctorUnavailable)

	_, err = f.book(t, monday, "09:00", "09:30")
	assert.NoError(t, err)
}

func TestUpdateInvertedRange(t *testing.T) {
	f := newFixture(t)
	ap, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	_, err = f.update.Execute(context.Background(), UpdateAppointmentInput{ID: ap.ID, StartTime: strp("10:00")})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestUpdateStatusRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	got, err := f.update.Execute(ctx, UpdateAppointmentInput{ID: ap.ID, Status: strp("completed")})
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{ID: ap.ID, Status: strp("scheduled")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{ID: ap.ID, StartTime: strp("09:10")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.update.Execute(ctx, UpdateAppointmentInput{ID: ap.ID, Status: strp("pending")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	got, err = f.update.Execute(ctx, UpdateAppointmentInput{ID: ap.ID, Notes: strp("follow up in a month")})
	require.NoError(t, err)
	assert.Equal(t, "follow up in a month", got.Notes)
}

func TestUpdateUnknownAppointment(t *testing.T) {
	f := newFixture(t)
	_, err := f.update.Execute(context.Background(), UpdateAppointmentInput{ID: 404, Notes: strp("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ======================================================
// CANCEL / COMPLETE / NO-SHOW
// ======================================================

func TestCancelIsIdempotentAndFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	first, err := f.cancel.Execute(ctx, 0, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", first.Status)
	require.NotNil(t, first.CancelledAt)

	second, err := f.cancel.Execute(ctx, 0, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", second.Status)
	assert.Equal(t, *first.CancelledAt, *second.CancelledAt)

	_, err = f.book(t, monday, "09:00", "09:30")
	assert.NoError(t, err)
}

func TestCompleteAndNoShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)
	b, err := f.book(t, monday, "09:30", "10:00")
	require.NoError(t, err)

	done, err := f.complete.Execute(ctx, 0, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)

	missed, err := f.noShow.Execute(ctx, 0, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "no-show", missed.Status)

	_, err = f.cancel.Execute(ctx, 0, a.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.complete.Execute(ctx, 0, b.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ======================================================
// SLOTS / LIST
// ======================================================

func TestGetAvailabilityExcludesBookedSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.ReplaceAvailability(ctx, doctorID, []models.DoctorAvailability{
		{Day: "monday", StartTime: "09:00", EndTime: "10:00"},
	}))

	_, err := f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)

	res, err := f.slots.Execute(ctx, domain.AvailabilityInput{DoctorID: doctorID, Date: monday})
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, &domain.Window{Start: "09:00", End: "10:00"}, res.WorkingHours)
	assert.Equal(t, []domain.TimeSlot{{StartTime: "09:30", EndTime: "10:00"}}, res.Slots)
}

func TestGetAvailabilityNonWorkingDay(t *testing.T) {
	f := newFixture(t)

	res, err := f.slots.Execute(context.Background(), domain.AvailabilityInput{DoctorID: doctorID, Date: saturday})
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Empty(t, res.Slots)
	assert.Nil(t, res.WorkingHours)
}

func TestGetAvailabilityErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.slots.Execute(ctx, domain.AvailabilityInput{DoctorID: 99, Date: monday})
	assert.ErrorIs(t, err, domain.ErrDoctorNotFound)

	_, err = f.slots.Execute(ctx, domain.AvailabilityInput{DoctorID: doctorID, Date: "monday"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.slots.Execute(ctx, domain.AvailabilityInput{DoctorID: doctorID, Date: monday, SlotWidth: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidSlotWidth)
}

func TestGetAvailabilityCustomWidth(t *testing.T) {
	f := newFixture(t)

	res, err := f.slots.Execute(context.Background(), domain.AvailabilityInput{DoctorID: doctorID, Date: monday, SlotWidth: 60})
	require.NoError(t, err)
	assert.Len(t, res.Slots, 8)
	assert.Equal(t, domain.TimeSlot{StartTime: "16:00", EndTime: "17:00"}, res.Slots[7])
}

func TestListAppointmentsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.book(t, tuesday, "09:00", "09:30")
	require.NoError(t, err)
	a, err := f.book(t, monday, "10:00", "10:30")
	require.NoError(t, err)
	_, err = f.book(t, monday, "09:00", "09:30")
	require.NoError(t, err)
	_, err = f.cancel.Execute(ctx, 0, a.ID)
	require.NoError(t, err)

	all, err := f.list.Execute(ctx, ListAppointmentsInput{DoctorID: doctorID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, monday, all[0].Date)
	assert.Equal(t, "09:00", all[0].StartTime)
	assert.Equal(t, tuesday, all[2].Date)

	scheduled, err := f.list.Execute(ctx, ListAppointmentsInput{PatientID: patientID, Status: "scheduled", EndDate: monday})
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "09:00", scheduled[0].StartTime)

	_, err = f.list.Execute(ctx, ListAppointmentsInput{DoctorID: doctorID, StartDate: tuesday, EndDate: monday})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.list.Execute(ctx, ListAppointmentsInput{DoctorID: doctorID, Status: "later"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
