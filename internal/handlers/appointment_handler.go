package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	usecase "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// DEPENDENCIES
// ======================================================

// CallerProfiles resolves the profile behind an authenticated user.
type CallerProfiles interface {
	DoctorIDByUser(ctx context.Context, userID uint) (uint, error)
	PatientIDByUser(ctx context.Context, userID uint) (uint, error)
}

type AppointmentUseCases struct {
	Create   *usecase.CreateAppointment
	Update   *usecase.UpdateAppointment
	Cancel   *usecase.CancelAppointment
	Complete *usecase.CompleteAppointment
	NoShow   *usecase.MarkNoShow
	Get      *usecase.GetAppointment
	List     *usecase.ListAppointments
	Slots    *usecase.GetAvailability
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	uc       AppointmentUseCases
	profiles CallerProfiles
	log      *zap.Logger
}

func NewAppointmentHandler(uc AppointmentUseCases, profiles CallerProfiles, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, profiles: profiles, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID    uint   `json:"doctorId"`
	PatientID   uint   `json:"patientId"`
	ConditionID *uint  `json:"conditionId"`
	Date        string `json:"date" binding:"required,isodate"`
	StartTime   string `json:"startTime" binding:"required,hhmm"`
	EndTime     string `json:"endTime" binding:"required,hhmm"`
	Reason      string `json:"reason" binding:"required"`
	Notes       string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Date        *string `json:"date" binding:"omitempty,isodate"`
	StartTime   *string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime     *string `json:"endTime" binding:"omitempty,hhmm"`
	Reason      *string `json:"reason"`
	Notes       *string `json:"notes"`
	ConditionID *uint   `json:"conditionId"`
	Status      *string `json:"status"`
}

// ======================================================
// CALLER
// ======================================================

type caller struct {
	userID    uint
	role      string
	doctorID  uint
	patientID uint
}

func (h *AppointmentHandler) caller(c *gin.Context) (caller, error) {
	cl := caller{userID: middleware.UserID(c), role: middleware.Role(c)}

	var err error
	switch cl.role {
	case models.RoleDoctor:
		cl.doctorID, err = h.profiles.DoctorIDByUser(c.Request.Context(), cl.userID)
	case models.RolePatient:
		cl.patientID, err = h.profiles.PatientIDByUser(c.Request.Context(), cl.userID)
	default:
		err = ErrForbidden
	}
	return cl, err
}

func (cl caller) owns(ap *models.Appointment) bool {
	switch cl.role {
	case models.RoleDoctor:
		return ap.DoctorID == cl.doctorID
	case models.RolePatient:
		return ap.PatientID == cl.patientID
	}
	return false
}

// load fetches the appointment and checks the caller is a party to it.
func (h *AppointmentHandler) load(c *gin.Context) (caller, *models.Appointment, error) {
	cl, err := h.caller(c)
	if err != nil {
		return cl, nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return cl, nil, err
	}
	ap, err := h.uc.Get.Execute(c.Request.Context(), id)
	if err != nil {
		return cl, nil, err
	}
	if !cl.owns(ap) {
		return cl, nil, ErrForbidden
	}
	return cl, ap, nil
}

func (h *AppointmentHandler) fail(c *gin.Context, err error) {
	httperr.Respond(c, h.log, err)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	cl, err := h.caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	switch cl.role {
	case models.RolePatient:
		if req.PatientID == 0 {
			req.PatientID = cl.patientID
		}
		if req.PatientID != cl.patientID {
			h.fail(c, ErrForbidden)
			return
		}
	case models.RoleDoctor:
		if req.DoctorID == 0 {
			req.DoctorID = cl.doctorID
		}
		if req.DoctorID != cl.doctorID {
			h.fail(c, ErrForbidden)
			return
		}
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		ActorID:     cl.userID,
		DoctorID:    req.DoctorID,
		PatientID:   req.PatientID,
		ConditionID: req.ConditionID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
		Notes:       req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	cl, ap, err := h.load(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	// Patients may cancel through a status patch but not settle visits.
	if cl.role == models.RolePatient && req.Status != nil && *req.Status != string(domain.StatusCancelled) {
		h.fail(c, ErrForbidden)
		return
	}

	updated, err := h.uc.Update.Execute(c.Request.Context(), usecase.UpdateAppointmentInput{
		ActorID:     cl.userID,
		ID:          ap.ID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
		Notes:       req.Notes,
		ConditionID: req.ConditionID,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, updated)
}

// ======================================================
// STATUS CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	cl, ap, err := h.load(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := h.uc.Cancel.Execute(c.Request.Context(), cl.userID, ap.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Appointment cancelled successfully", "appointment": out})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	cl, ap, err := h.load(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := h.uc.Complete.Execute(c.Request.Context(), cl.userID, ap.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	cl, ap, err := h.load(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := h.uc.NoShow.Execute(c.Request.Context(), cl.userID, ap.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// READS
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	_, ap, err := h.load(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ListForDoctor(c *gin.Context) {
	h.list(c, "doctorId", func(cl caller, id uint, in *usecase.ListAppointmentsInput) bool {
		in.DoctorID = id
		return cl.role == models.RoleDoctor && cl.doctorID == id
	})
}

func (h *AppointmentHandler) ListForPatient(c *gin.Context) {
	h.list(c, "patientId", func(cl caller, id uint, in *usecase.ListAppointmentsInput) bool {
		in.PatientID = id
		return cl.role == models.RolePatient && cl.patientID == id
	})
}

func (h *AppointmentHandler) list(
	c *gin.Context,
	param string,
	scope func(cl caller, id uint, in *usecase.ListAppointmentsInput) bool,
) {
	cl, err := h.caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := paramID(c, param)
	if err != nil {
		h.fail(c, err)
		return
	}

	in := usecase.ListAppointmentsInput{
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if !scope(cl, id, &in) {
		h.fail(c, ErrForbidden)
		return
	}

	aps, err := h.uc.List.Execute(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(aps))
}

// AvailableSlots answers GET /doctor/:doctorId/available-slots?date=&width=.
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	doctorID, err := paramID(c, "doctorId")
	if err != nil {
		h.fail(c, err)
		return
	}

	date := c.Query("date")
	if date == "" {
		h.fail(c, domain.ErrMissingFields)
		return
	}

	var width int
	if raw := c.Query("width"); raw != "" {
		if width, err = strconv.Atoi(raw); err != nil || width == 0 {
			h.fail(c, domain.ErrInvalidSlotWidth)
			return
		}
	}

	res, err := h.uc.Slots.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID:  doctorID,
		Date:      date,
		SlotWidth: width,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, res)
}
