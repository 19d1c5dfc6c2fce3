package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

var (
	ErrInvalidCredentials = httperr.ErrBusiness(httperr.KindUnauthorized, "invalid_credentials")
	ErrEmailTaken         = httperr.ErrBusiness(httperr.KindConflict, "email_taken")
	ErrForbidden          = httperr.ErrBusiness(httperr.KindForbidden, "forbidden")
	ErrPatientNotAssigned = httperr.ErrBusiness(httperr.KindForbidden, "patient_not_assigned")
	ErrRecordNotFound     = httperr.ErrBusiness(httperr.KindNotFound, "record_not_found")
	ErrInvalidSeverity    = httperr.ErrBusiness(httperr.KindValidation, "invalid_severity")
)

// bindError maps a binding failure to the business code of the first
// failing scheduling tag, or invalid_request.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Tag() {
			case "isodate":
				return domain.ErrInvalidDate
			case "hhmm":
				return domain.ErrInvalidTime
			case "weekday":
				return domain.ErrInvalidWeekday
			case "oneof":
				if fe.Field() == "Severity" {
					return ErrInvalidSeverity
				}
			}
		}
	}
	return domain.ErrMissingFields
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrMissingFields
	}
	return uint(id), nil
}
