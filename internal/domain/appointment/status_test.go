package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			switch {
			case from == to, from == StatusScheduled:
				assert.NoError(t, err, "%s -> %s", from, to)
			default:
				assert.ErrorIs(t, err, ErrInvalidState, "%s -> %s", from, to)
			}
		}
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("no-show")
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, st)

	_, err = ParseStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancelIsIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	changed, err := Cancel(ap, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledAt)

	changed, err = Cancel(ap, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, now, *ap.CancelledAt)
}

func TestTerminalStatesRejectActions(t *testing.T) {
	now := time.Now()

	done := &models.Appointment{Status: string(StatusCompleted)}
	_, err := Cancel(done, now)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, MarkNoShow(done), ErrInvalidState)

	cancelled := &models.Appointment{Status: string(StatusCancelled)}
	assert.ErrorIs(t, Complete(cancelled, now), ErrInvalidState)
}

func TestCompleteSetsTimestamp(t *testing.T) {
	now := time.Now()
	ap := &models.Appointment{Status: string(StatusScheduled)}
	require.NoError(t, Transition(ap, StatusCompleted, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)
}

func TestCompleteIsIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusScheduled)}

	require.NoError(t, Complete(ap, now))
	require.NoError(t, Complete(ap, now.Add(time.Hour)))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	assert.Equal(t, now, *ap.CompletedAt)

	noShow := &models.Appointment{Status: string(StatusNoShow)}
	require.NoError(t, MarkNoShow(noShow))
	assert.ErrorIs(t, Complete(noShow, now), ErrInvalidState)
}
