package models

import "time"

const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// ConditionDetail tracks one chronic condition of a patient. Appointments may
// reference it.
type ConditionDetail struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PatientID uint `gorm:"not null;index" json:"patient_id"`

	Condition       string   `gorm:"size:150;not null" json:"condition"`
	DiagnosedDate   string   `gorm:"size:10" json:"diagnosed_date"`
	Severity        string   `gorm:"size:10" json:"severity"`
	CurrentSymptoms []string `gorm:"serializer:json;type:text" json:"current_symptoms"`
	Medications     []string `gorm:"serializer:json;type:text" json:"medications"`
	Notes           string   `gorm:"type:text" json:"notes"`

	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

type MedicalHistoryEntry struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	PatientID uint  `gorm:"not null;index" json:"patient_id"`
	DoctorID  *uint `json:"doctor_id"`

	Date      string `gorm:"size:10;not null" json:"date"`
	Diagnosis string `gorm:"size:255;not null" json:"diagnosis"`
	Treatment string `gorm:"size:255;not null" json:"treatment"`
	Notes     string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

type Prescription struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	PatientID uint  `gorm:"not null;index" json:"patient_id"`
	DoctorID  *uint `json:"doctor_id"`

	Date       string `gorm:"size:10;not null" json:"date"`
	Medication string `gorm:"size:150;not null" json:"medication"`
	Dosage     string `gorm:"size:100;not null" json:"dosage"`
	Frequency  string `gorm:"size:100" json:"frequency"`
	Duration   string `gorm:"size:100" json:"duration"`
	Notes      string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}
