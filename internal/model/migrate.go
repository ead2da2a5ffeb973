package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate выполняет миграцию всех сущностей, включая join-таблицы.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&Telephone{},
		&Doctor{},
		&Address{},
		&Appointment{},
	)
}

// SeedRoles inserts the built-in roles that are missing. Safe to run on
// every start.
func SeedRoles(db *gorm.DB) error {
	roles := []Role{
		{Authority: RoleAdmin},
		{Authority: RoleDoctor},
		{Authority: RolePatient},
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "authority"}},
		DoNothing: true,
	}).Create(&roles).Error
}
