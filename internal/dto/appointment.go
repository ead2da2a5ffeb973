package dto

import (
	"time"

	"github.com/Leganyst/naconsulta/internal/model"
)

type AppointmentDTO struct {
	ID         int64     `json:"id"`
	PatientID  int64     `json:"patientId"`
	DoctorID   int64     `json:"doctorId"`
	DoctorName string    `json:"doctorName,omitempty"`
	Moment     time.Time `json:"moment"`
	Diagnosis  string    `json:"diagnosis"`
	Symptom    string    `json:"symptom"`
}

// AppointmentUpdate replaces both notes; an omitted field clears it.
type AppointmentUpdate struct {
	Diagnosis string `json:"diagnosis" validate:"max=4000"`
	Symptom   string `json:"symptom" validate:"max=4000"`
}

func NewAppointment(a *model.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Moment:    a.Moment,
		Diagnosis: a.Diagnosis,
		Symptom:   a.Symptom,
	}
	if a.Doctor != nil {
		out.DoctorName = a.Doctor.Name
	}
	return out
}

func NewAppointments(appointments []model.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, NewAppointment(&appointments[i]))
	}
	return out
}
