package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func expectDoctor(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "doctors" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "specialization"}).
			AddRow(1, 100, "cardiology"))
}

func TestUpdateAvailability(t *testing.T) {
	day := func(d, start, end string) gin.H {
		return gin.H{"day": d, "startTime": start, "endTime": end}
	}

	tests := []struct {
		name   string
		body   []gin.H
		status int
		code   string
	}{
		{"unknown weekday", []gin.H{day("funday", "09:00", "17:00")}, http.StatusBadRequest, "invalid_weekday"},
		{"malformed time", []gin.H{day("monday", "9am", "17:00")}, http.StatusBadRequest, "invalid_time"},
		{"end before start", []gin.H{day("monday", "17:00", "09:00")}, http.StatusBadRequest, "invalid_time_range"},
		{"duplicate weekday", []gin.H{day("monday", "09:00", "12:00"), day("monday", "13:00", "17:00")}, http.StatusBadRequest, "duplicate_weekday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			store := memory.NewStore()
			store.AddDoctor(1, models.DoctorAvailability{Day: "friday", StartTime: "08:00", EndTime: "12:00"})

			h := NewDoctorHandler(db, store, zap.NewNop())
			r := gin.New()
			r.PUT("/availability", middleware.AuthMiddleware(testJWT), h.UpdateAvailability)

			expectDoctor(mock)
			w := call(r, http.MethodPut, "/availability", token(t, doctorUser, models.RoleDoctor),
				gin.H{"availability": tt.body})
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))

			entries, err := store.Availability(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, entries, 1, "a rejected schedule leaves the old one in place")
			assert.Equal(t, "friday", entries[0].Day)
		})
	}
}

func TestUpdateAvailability_Replaces(t *testing.T) {
	db, mock := newMockDB(t)
	store := memory.NewStore()
	store.AddDoctor(1, models.DoctorAvailability{Day: "friday", StartTime: "08:00", EndTime: "12:00"})

	h := NewDoctorHandler(db, store, zap.NewNop())
	r := gin.New()
	r.PUT("/availability", middleware.AuthMiddleware(testJWT), h.UpdateAvailability)

	expectDoctor(mock)
	w := call(r, http.MethodPut, "/availability", token(t, doctorUser, models.RoleDoctor), gin.H{
		"availability": []gin.H{
			{"day": "monday", "startTime": "09:00", "endTime": "17:00"},
			{"day": "wednesday", "startTime": "13:00", "endTime": "18:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":2`)

	entries, err := store.Availability(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "monday", entries[0].Day)
	assert.Equal(t, "wednesday", entries[1].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPatientsEscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewDoctorHandler(db, memory.NewStore(), zap.NewNop())
	r := gin.New()
	r.GET("/patients/search", h.SearchPatients)

	want := `%50\%\_off\\%`
	mock.ExpectQuery(`LIKE \$1 ESCAPE '\\' OR .+ LIKE \$2 ESCAPE '\\'`).
		WithArgs(want, want, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := call(r, http.MethodGet, "/patients/search?q=50%25_OFF%5C", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
