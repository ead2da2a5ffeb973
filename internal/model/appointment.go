package model

import "time"

// appointments
type Appointment struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	PatientID int64 `gorm:"not null;index"`
	DoctorID  int64 `gorm:"not null;index"`

	Moment time.Time `gorm:"not null;index"`

	Diagnosis string `gorm:"type:text"`
	Symptom   string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Doctor *Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
