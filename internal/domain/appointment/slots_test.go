package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestFreeSlotsExcludesBooked(t *testing.T) {
	w := Window{Start: "09:00", End: "10:00"}
	booked := []models.Appointment{
		{StartTime: "09:00", EndTime: "09:30", Status: string(StatusScheduled)},
	}

	slots, err := FreeSlots(w, 30, booked)
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{{StartTime: "09:30", EndTime: "10:00"}}, slots)
}

func TestFreeSlotsStrictContainment(t *testing.T) {
	w := Window{Start: "09:00", End: "10:15"}

	slots, err := FreeSlots(w, 30, nil)
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		{StartTime: "09:00", EndTime: "09:30"},
		{StartTime: "09:30", EndTime: "10:00"},
	}, slots)
}

func TestFreeSlotsWindowShorterThanWidth(t *testing.T) {
	slots, err := FreeSlots(Window{Start: "09:00", End: "09:20"}, 30, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestFreeSlotsIgnoresCancelledAndKeepsOrder(t *testing.T) {
	w := Window{Start: "09:00", End: "11:00"}
	booked := []models.Appointment{
		{StartTime: "10:00", EndTime: "10:45", Status: string(StatusScheduled)},
		{StartTime: "09:00", EndTime: "09:30", Status: string(StatusCancelled)},
	}

	slots, err := FreeSlots(w, 30, booked)
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		{StartTime: "09:00", EndTime: "09:30"},
		{StartTime: "09:30", EndTime: "10:00"},
	}, slots)
}

func TestFreeSlotsNeverOverlapBookings(t *testing.T) {
	w := Window{Start: "08:00", End: "17:00"}
	booked := []models.Appointment{
		{StartTime: "08:10", EndTime: "08:50", Status: "scheduled"},
		{StartTime: "12:00", EndTime: "13:30", Status: "scheduled"},
		{StartTime: "16:55", EndTime: "17:00", Status: "completed"},
	}

	for _, width := range []int{5, 15, 20, 30, 45, 60} {
		slots, err := FreeSlots(w, width, booked)
		require.NoError(t, err)

		for _, s := range slots {
			slot := iv(t, s.StartTime, s.EndTime)
			for _, b := range booked {
				assert.False(t, slot.Overlaps(iv(t, b.StartTime, b.EndTime)),
					"width %d slot %s-%s overlaps %s-%s", width, s.StartTime, s.EndTime, b.StartTime, b.EndTime)
			}
		}
	}
}

func TestCandidateSlotsRejectsWidth(t *testing.T) {
	_, err := CandidateSlots(Window{Start: "09:00", End: "10:00"}, 0)
	assert.ErrorIs(t, err, ErrInvalidSlotWidth)

	_, err = CandidateSlots(Window{Start: "09:00", End: "10:00"}, MaxSlotWidth+1)
	assert.ErrorIs(t, err, ErrInvalidSlotWidth)
}
