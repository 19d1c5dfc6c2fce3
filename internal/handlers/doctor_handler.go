package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type DoctorHandler struct {
	db           *gorm.DB
	availability domain.AvailabilityStore
	log          *zap.Logger
}

func NewDoctorHandler(db *gorm.DB, availability domain.AvailabilityStore, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{db: db, availability: availability, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateDoctorProfileRequest struct {
	Specialization  *string `json:"specialization"`
	HospitalName    *string `json:"hospital_name"`
	HospitalAddress *string `json:"hospital_address"`
	Experience      *int    `json:"experience" binding:"omitempty,min=0"`
	LicenseNumber   *string `json:"license_number"`
	ContactNumber   *string `json:"contact_number"`
	Bio             *string `json:"bio"`
}

type AvailabilityEntry struct {
	Day       string `json:"day" binding:"required,weekday"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm"`
}

type UpdateAvailabilityRequest struct {
	Availability []AvailabilityEntry `json:"availability" binding:"dive"`
}

type AssignPatientRequest struct {
	PatientID uint `json:"patientId" binding:"required"`
}

type MedicalHistoryRequest struct {
	Date      string `json:"date" binding:"required,isodate"`
	Diagnosis string `json:"diagnosis" binding:"required"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
}

type PrescriptionRequest struct {
	Date       string `json:"date" binding:"required,isodate"`
	Medication string `json:"medication" binding:"required"`
	Dosage     string `json:"dosage" binding:"required"`
	Frequency  string `json:"frequency" binding:"required"`
	Duration   string `json:"duration"`
	Notes      string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *DoctorHandler) current(c *gin.Context) (*models.Doctor, error) {
	var d models.Doctor
	err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", middleware.UserID(c)).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// assigned returns the patient when it is on the doctor's list.
func (h *DoctorHandler) assigned(c *gin.Context, doctorID uint) (*models.Patient, error) {
	patientID, err := paramID(c, "patientId")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Table("doctor_patients").
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPatientNotAssigned
	}

	var p models.Patient
	if err := h.db.WithContext(c.Request.Context()).Preload("User").First(&p, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (h *DoctorHandler) fail(c *gin.Context, err error) {
	httperr.Respond(c, h.log, err)
}

// ======================================================
// PROFILE
// ======================================================

func (h *DoctorHandler) GetProfile(c *gin.Context) {
	var d models.Doctor
	err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Availability").
		Where("user_id = ?", middleware.UserID(c)).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = domain.ErrDoctorNotFound
		}
		h.fail(c, err)
		return
	}

	httpresp.OK(c, d)
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	updates := map[string]any{}
	if req.Specialization != nil {
		if strings.TrimSpace(*req.Specialization) == "" {
			h.fail(c, domain.ErrMissingFields)
			return
		}
		updates["specialization"] = strings.TrimSpace(*req.Specialization)
	}
	if req.HospitalName != nil {
		updates["hospital_name"] = *req.HospitalName
	}
	if req.HospitalAddress != nil {
		updates["hospital_address"] = *req.HospitalAddress
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.LicenseNumber != nil {
		updates["license_number"] = *req.LicenseNumber
	}
	if req.ContactNumber != nil {
		updates["contact_number"] = *req.ContactNumber
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(d).Updates(updates).Error; err != nil {
			h.fail(c, err)
			return
		}
	}

	h.GetProfile(c)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *DoctorHandler) GetAvailability(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	entries, err := h.availability.Availability(c.Request.Context(), d.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, entries)
}

// UpdateAvailability replaces the whole weekly schedule.
func (h *DoctorHandler) UpdateAvailability(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	entries := make([]models.DoctorAvailability, len(req.Availability))
	for i, e := range req.Availability {
		entries[i] = models.DoctorAvailability{
			DoctorID:  d.ID,
			Day:       e.Day,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		}
	}
	if err := domain.ValidateAvailability(entries); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.availability.ReplaceAvailability(c.Request.Context(), d.ID, entries); err != nil {
		if httperr.IsUniqueViolation(err) {
			err = domain.ErrDuplicateWeekday
		}
		h.fail(c, err)
		return
	}

	httpresp.List(c, entries)
}

// ======================================================
// PATIENTS
// ======================================================

func (h *DoctorHandler) ListPatients(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var patients []models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Model(d).
		Preload("User").
		Association("Patients").
		Find(&patients); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, patients)
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (h *DoctorHandler) SearchPatients(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		h.fail(c, domain.ErrMissingFields)
		return
	}

	like := "%" + likeEscaper.Replace(q) + "%"
	var patients []models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Joins("User").
		Where(`LOWER("User"."name") LIKE ? ESCAPE '\' OR LOWER("User"."email") LIKE ? ESCAPE '\'`, like, like).
		Limit(50).
		Find(&patients).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, patients)
}

func (h *DoctorHandler) AssignPatient(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req AssignPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	var p models.Patient
	if err := h.db.WithContext(c.Request.Context()).First(&p, req.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = domain.ErrPatientNotFound
		}
		h.fail(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(d).Association("Patients").Append(&p); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Message(c, "Patient assigned successfully")
}

func (h *DoctorHandler) RemovePatient(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.assigned(c, d.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(d).Association("Patients").Delete(p); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Message(c, "Patient removed successfully")
}

func (h *DoctorHandler) GetPatient(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.assigned(c, d.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		conditions    []models.ConditionDetail
		history       []models.MedicalHistoryEntry
		prescriptions []models.Prescription
	)
	if err := h.db.WithContext(ctx).Where("patient_id = ?", p.ID).Order("id ASC").Find(&conditions).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Where("patient_id = ?", p.ID).Order("date DESC").Find(&history).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Where("patient_id = ?", p.ID).Order("date DESC").Find(&prescriptions).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"patient":          p,
		"conditionDetails": conditions,
		"medicalHistory":   history,
		"prescriptions":    prescriptions,
	})
}

func (h *DoctorHandler) PatientConditionDetails(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.assigned(c, d.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	var details []models.ConditionDetail
	if err := h.db.WithContext(c.Request.Context()).
		Where("patient_id = ?", p.ID).
		Order("id ASC").
		Find(&details).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, details)
}

// ======================================================
// RECORDS
// ======================================================

func (h *DoctorHandler) AddMedicalHistory(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.assigned(c, d.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req MedicalHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	entry := models.MedicalHistoryEntry{
		PatientID: p.ID,
		DoctorID:  &d.ID,
		Date:      req.Date,
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		Notes:     req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, entry)
}

func (h *DoctorHandler) AddPrescription(c *gin.Context) {
	d, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.assigned(c, d.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	rx := models.Prescription{
		PatientID:  p.ID,
		DoctorID:   &d.ID,
		Date:       req.Date,
		Medication: req.Medication,
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		Duration:   req.Duration,
		Notes:      req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&rx).Error; err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, rx)
}
