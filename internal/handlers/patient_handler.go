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

type PatientHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPatientHandler(db *gorm.DB, log *zap.Logger) *PatientHandler {
	return &PatientHandler{db: db, log: log}
}

// --------- Requests ---------

type UpdatePatientProfileRequest struct {
	DateOfBirth   *string `json:"date_of_birth" binding:"omitempty,isodate"`
	Gender        *string `json:"gender" binding:"omitempty,oneof=male female other"`
	BloodGroup    *string `json:"blood_group"`
	ContactNumber *string `json:"contact_number"`

	EmergencyContactName         *string `json:"emergency_contact_name"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship"`
	EmergencyContactNumber       *string `json:"emergency_contact_number"`

	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
	Country *string `json:"country"`
}

type ListItemRequest struct {
	Value string `json:"value" binding:"required"`
}

type ConditionDetailRequest struct {
	Condition       string   `json:"condition" binding:"required"`
	DiagnosedDate   string   `json:"diagnosed_date" binding:"omitempty,isodate"`
	Severity        string   `json:"severity" binding:"omitempty,oneof=mild moderate severe"`
	CurrentSymptoms []string `json:"current_symptoms"`
	Medications     []string `json:"medications"`
	Notes           string   `json:"notes"`
}

// --------- Helpers ---------

func (h *PatientHandler) current(c *gin.Context) (*models.Patient, error) {
	var p models.Patient
	err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Where("user_id = ?", middleware.UserID(c)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *PatientHandler) fail(c *gin.Context, err error) {
	httperr.Respond(c, h.log, err)
}

// --------- Profile ---------

func (h *PatientHandler) GetProfile(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *PatientHandler) UpdateProfile(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	updates := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("date_of_birth", req.DateOfBirth)
	set("gender", req.Gender)
	set("blood_group", req.BloodGroup)
	set("contact_number", req.ContactNumber)
	set("emergency_contact_name", req.EmergencyContactName)
	set("emergency_contact_relationship", req.EmergencyContactRelationship)
	set("emergency_contact_number", req.EmergencyContactNumber)
	set("street", req.Street)
	set("city", req.City)
	set("state", req.State)
	set("zip_code", req.ZipCode)
	set("country", req.Country)

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(p).Updates(updates).Error; err != nil {
			h.fail(c, err)
			return
		}
	}

	h.GetProfile(c)
}

// --------- Allergies / chronic conditions ---------

// listField selects one of the patient's string lists.
type listField struct {
	column string
	get    func(p *models.Patient) *[]string
}

var (
	allergiesField = listField{"allergies", func(p *models.Patient) *[]string { return &p.Allergies }}
	chronicField   = listField{"chronic_conditions", func(p *models.Patient) *[]string { return &p.ChronicConditions }}
)

func (h *PatientHandler) getList(f listField) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.current(c)
		if err != nil {
			h.fail(c, err)
			return
		}
		httpresp.List(c, *f.get(p))
	}
}

func (h *PatientHandler) addToList(f listField) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.current(c)
		if err != nil {
			h.fail(c, err)
			return
		}

		var req ListItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, bindError(err))
			return
		}
		value := strings.TrimSpace(req.Value)
		if value == "" {
			h.fail(c, domain.ErrMissingFields)
			return
		}

		list := f.get(p)
		for _, existing := range *list {
			if strings.EqualFold(existing, value) {
				httpresp.List(c, *list)
				return
			}
		}
		*list = append(*list, value)

		if err := h.db.WithContext(c.Request.Context()).Model(p).Select(f.column).Updates(p).Error; err != nil {
			h.fail(c, err)
			return
		}
		httpresp.List(c, *list)
	}
}

func (h *PatientHandler) removeFromList(f listField, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.current(c)
		if err != nil {
			h.fail(c, err)
			return
		}

		value := c.Param(param)
		list := f.get(p)
		kept := make([]string, 0, len(*list))
		for _, existing := range *list {
			if !strings.EqualFold(existing, value) {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(*list) {
			h.fail(c, ErrRecordNotFound)
			return
		}
		*list = kept

		if err := h.db.WithContext(c.Request.Context()).Model(p).Select(f.column).Updates(p).Error; err != nil {
			h.fail(c, err)
			return
		}
		httpresp.List(c, *list)
	}
}

func (h *PatientHandler) GetAllergies() gin.HandlerFunc { return h.getList(allergiesField) }
func (h *PatientHandler) AddAllergy() gin.HandlerFunc   { return h.addToList(allergiesField) }
func (h *PatientHandler) RemoveAllergy() gin.HandlerFunc {
	return h.removeFromList(allergiesField, "allergy")
}
func (h *PatientHandler) GetConditions() gin.HandlerFunc { return h.getList(chronicField) }
func (h *PatientHandler) AddCondition() gin.HandlerFunc  { return h.addToList(chronicField) }
func (h *PatientHandler) RemoveCondition() gin.HandlerFunc {
	return h.removeFromList(chronicField, "condition")
}

// --------- Condition details ---------

func (h *PatientHandler) conditionDetail(c *gin.Context, patientID uint) (*models.ConditionDetail, error) {
	id, err := paramID(c, "conditionId")
	if err != nil {
		return nil, err
	}

	var cd models.ConditionDetail
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND patient_id = ?", id, patientID).
		First(&cd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrConditionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cd, nil
}

func (h *PatientHandler) ListConditionDetails(c *gin.Context) {
	p, err := h.current(c)
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

func (h *PatientHandler) GetConditionDetail(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cd, err := h.conditionDetail(c, p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, cd)
}

func (h *PatientHandler) AddConditionDetail(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req ConditionDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	cd := models.ConditionDetail{
		PatientID:       p.ID,
		Condition:       strings.TrimSpace(req.Condition),
		DiagnosedDate:   req.DiagnosedDate,
		Severity:        req.Severity,
		CurrentSymptoms: req.CurrentSymptoms,
		Medications:     req.Medications,
		Notes:           req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&cd).Error; err != nil {
		h.fail(c, err)
		return
	}
	httpresp.Created(c, cd)
}

func (h *PatientHandler) UpdateConditionDetail(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cd, err := h.conditionDetail(c, p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req ConditionDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	cd.Condition = strings.TrimSpace(req.Condition)
	cd.DiagnosedDate = req.DiagnosedDate
	cd.Severity = req.Severity
	cd.CurrentSymptoms = req.CurrentSymptoms
	cd.Medications = req.Medications
	cd.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(cd).Error; err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, cd)
}

// DeleteConditionDetail detaches the condition from appointments before
// removing it.
func (h *PatientHandler) DeleteConditionDetail(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cd, err := h.conditionDetail(c, p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).
			Where("condition_id = ?", cd.ID).
			Update("condition_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(cd).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.Message(c, "Condition detail deleted")
}

// --------- Records ---------

func (h *PatientHandler) MedicalHistory(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var history []models.MedicalHistoryEntry
	if err := h.db.WithContext(c.Request.Context()).
		Where("patient_id = ?", p.ID).
		Order("date DESC").
		Find(&history).Error; err != nil {
		h.fail(c, err)
		return
	}
	httpresp.List(c, history)
}

func (h *PatientHandler) Prescriptions(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var rxs []models.Prescription
	if err := h.db.WithContext(c.Request.Context()).
		Where("patient_id = ?", p.ID).
		Order("date DESC").
		Find(&rxs).Error; err != nil {
		h.fail(c, err)
		return
	}
	httpresp.List(c, rxs)
}

func (h *PatientHandler) Doctors(c *gin.Context) {
	p, err := h.current(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var doctors []models.Doctor
	if err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Availability").
		Joins("JOIN doctor_patients ON doctor_patients.doctor_id = doctors.id").
		Where("doctor_patients.patient_id = ?", p.ID).
		Find(&doctors).Error; err != nil {
		h.fail(c, err)
		return
	}
	httpresp.List(c, doctors)
}
