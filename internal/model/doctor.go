package model

import "gorm.io/datatypes"

// doctors
type Doctor struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null"`

	// Registration is the CRM number.
	Registration string `gorm:"type:varchar(32);not null;uniqueIndex"`

	Specialties datatypes.JSONSlice[string]
}
