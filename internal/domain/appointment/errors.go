package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

var (
	ErrMissingFields     = httperr.ErrBusiness(httperr.KindValidation, "invalid_request")
	ErrInvalidDate       = httperr.ErrBusiness(httperr.KindValidation, "invalid_date")
	ErrInvalidTime       = httperr.ErrBusiness(httperr.KindValidation, "invalid_time")
	ErrInvalidTimeRange  = httperr.ErrBusiness(httperr.KindValidation, "invalid_time_range")
	ErrInvalidSlotWidth  = httperr.ErrBusiness(httperr.KindValidation, "invalid_slot_width")
	ErrInvalidWeekday    = httperr.ErrBusiness(httperr.KindValidation, "invalid_weekday")
	ErrDuplicateWeekday  = httperr.ErrBusiness(httperr.KindValidation, "duplicate_weekday")
	ErrInvalidStatus     = httperr.ErrBusiness(httperr.KindValidation, "invalid_status")
	ErrDoctorNotFound    = httperr.ErrBusiness(httperr.KindNotFound, "doctor_not_found")
	ErrPatientNotFound   = httperr.ErrBusiness(httperr.KindNotFound, "patient_not_found")
	ErrNotFound          = httperr.ErrBusiness(httperr.KindNotFound, "appointment_not_found")
	ErrConditionNotFound = httperr.ErrBusiness(httperr.KindNotFound, "condition_not_found")
	ErrDoctorUnavailable = httperr.ErrBusiness(httperr.KindUnavailable, "doctor_unavailable")
	ErrSlotTaken         = httperr.ErrBusiness(httperr.KindConflict, "slot_taken")
	ErrInvalidState      = httperr.ErrBusiness(httperr.KindInvalidState, "invalid_state")
	ErrConcurrentUpdate  = httperr.ErrBusiness(httperr.KindConflict, "appointment_changed")
)
