package models

import "time"

type Doctor struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialization  string `gorm:"size:100;not null" json:"specialization"`
	HospitalName    string `gorm:"size:150" json:"hospital_name"`
	HospitalAddress string `gorm:"size:255" json:"hospital_address"`
	Experience      int    `gorm:"default:0" json:"experience"`
	LicenseNumber   string `gorm:"size:50" json:"license_number"`
	ContactNumber   string `gorm:"size:20" json:"contact_number"`
	Bio             string `gorm:"type:text" json:"bio"`

	Availability []DoctorAvailability `json:"availability"`
	Patients     []Patient            `gorm:"many2many:doctor_patients;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DoctorAvailability is the working window of a doctor on one weekday.
type DoctorAvailability struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	DoctorID uint `gorm:"not null;uniqueIndex:ux_doctor_availability_day" json:"-"`

	Day       string `gorm:"size:10;not null;uniqueIndex:ux_doctor_availability_day" json:"day"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`
}
