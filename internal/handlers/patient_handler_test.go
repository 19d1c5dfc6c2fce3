package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestAddConditionDetail_Validation(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
		code string
	}{
		{"unknown severity", gin.H{"condition": "Asthma", "severity": "critical"}, "invalid_severity"},
		{"malformed diagnosed date", gin.H{"condition": "Asthma", "diagnosed_date": "2020-13-01"}, "invalid_date"},
		{"missing condition", gin.H{"severity": "mild"}, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(`SELECT \* FROM "patients" WHERE user_id = \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(10, 200))
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).AddRow(200, "Bia", "patient"))

			h := NewPatientHandler(db, zap.NewNop())
			r := gin.New()
			r.POST("/condition-details", middleware.AuthMiddleware(testJWT), h.AddConditionDetail)

			w := call(r, http.MethodPost, "/condition-details", token(t, patientUser, models.RolePatient), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPatientProfile_MissingProfile(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "patients" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := NewPatientHandler(db, zap.NewNop())
	r := gin.New()
	r.GET("/profile", middleware.AuthMiddleware(testJWT), h.GetProfile)

	w := call(r, http.MethodGet, "/profile", token(t, patientUser, models.RolePatient), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "patient_not_found", errorCode(t, w))
}
