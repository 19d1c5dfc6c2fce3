package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

var messages = map[string]string{
	"invalid_request":       "Missing or invalid fields.",
	"invalid_date":          "Date must be formatted as YYYY-MM-DD.",
	"invalid_time":          "Times must be formatted as HH:MM.",
	"invalid_time_range":    "Start time must be before end time.",
	"invalid_slot_width":    "Slot width must be between 5 and 720 minutes.",
	"invalid_weekday":       "Day must be a weekday name such as monday.",
	"duplicate_weekday":     "Only one availability entry per weekday is allowed.",
	"invalid_status":        "Unknown appointment status.",
	"invalid_severity":      "Severity must be mild, moderate or severe.",
	"doctor_not_found":      "Doctor not found.",
	"patient_not_found":     "Patient not found.",
	"appointment_not_found": "Appointment not found.",
	"condition_not_found":   "Condition detail not found.",
	"record_not_found":      "Record not found.",
	"doctor_unavailable":    "Doctor is not available on this day.",
	"slot_taken":            "Time slot is not available.",
	"invalid_state":         "Appointment can no longer change to that status.",
	"appointment_changed":   "Appointment was changed by another request. Try again.",
	"invalid_credentials":   "Invalid email or password.",
	"email_taken":           "User already exists.",
	"forbidden":             "Access denied.",
	"patient_not_assigned":  "This patient is not assigned to you.",
}

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation, KindUnavailable:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Respond writes err as JSON. Business errors keep their code; anything else
// is logged and hidden behind a generic internal_error.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		if log != nil {
			log.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("method", c.Request.Method),
				zap.Error(err),
			)
		}
		Internal(c, "internal_error", "Internal server error.")
		return
	}

	msg, ok := messages[be.Code]
	if !ok {
		msg = be.Code
	}
	Write(c, statusFor(be.Kind), be.Code, msg)
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}
