package dto

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

type AppointmentListDTO struct {
	ID             uint   `json:"id"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Status         string `json:"status"`
	Reason         string `json:"reason"`
	DoctorID       uint   `json:"doctorId"`
	DoctorName     string `json:"doctorName,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	PatientID      uint   `json:"patientId"`
	PatientName    string `json:"patientName,omitempty"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:        ap.ID,
		Date:      ap.Date,
		StartTime: ap.StartTime,
		EndTime:   ap.EndTime,
		Status:    ap.Status,
		Reason:    ap.Reason,
		DoctorID:  ap.DoctorID,
		PatientID: ap.PatientID,
	}
	if ap.Doctor != nil {
		out.DoctorName = ap.Doctor.User.Name
		out.Specialization = ap.Doctor.Specialization
	}
	if ap.Patient != nil {
		out.PatientName = ap.Patient.User.Name
	}
	return out
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap))
	}
	return out
}
