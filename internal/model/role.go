package model

const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleDoctor  = "ROLE_DOCTOR"
	RolePatient = "ROLE_PATIENT"
)

// roles
type Role struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Authority string `gorm:"type:varchar(64);not null;uniqueIndex"`
}
