package models

import "time"

type Patient struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	DateOfBirth   string `gorm:"size:10" json:"date_of_birth"`
	Gender        string `gorm:"size:10" json:"gender"`
	BloodGroup    string `gorm:"size:5" json:"blood_group"`
	ContactNumber string `gorm:"size:20" json:"contact_number"`

	EmergencyContactName         string `gorm:"size:100" json:"emergency_contact_name"`
	EmergencyContactRelationship string `gorm:"size:50" json:"emergency_contact_relationship"`
	EmergencyContactNumber       string `gorm:"size:20" json:"emergency_contact_number"`

	Street  string `gorm:"size:150" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`
	Country string `gorm:"size:100" json:"country"`

	Allergies         []string `gorm:"serializer:json;type:text" json:"allergies"`
	ChronicConditions []string `gorm:"serializer:json;type:text" json:"chronic_conditions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
