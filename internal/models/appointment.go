package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint    `gorm:"not null;index:idx_appointments_doctor_day,priority:1" json:"doctorId"`
	Doctor   *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor,omitempty"`

	PatientID uint     `gorm:"not null;index" json:"patientId"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient,omitempty"`

	ConditionID *uint            `json:"conditionId"`
	Condition   *ConditionDetail `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"condition,omitempty"`

	// Date is the calendar day (YYYY-MM-DD); times are zero padded HH:MM.
	Date      string `gorm:"size:10;not null;index:idx_appointments_doctor_day,priority:2" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`

	Status string `gorm:"size:20;not null;default:'scheduled';index" json:"status"`

	Reason      string     `gorm:"size:255;not null" json:"reason"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CancelledAt *time.Time `json:"cancelledAt"`
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
