package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/model"
)

type AppointmentRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Appointment, error)
	// Перезаписывает диагноз и симптомы, пустые строки тоже сохраняются.
	UpdateNotes(ctx context.Context, id int64, diagnosis, symptom string) error
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) FindByID(ctx context.Context, id int64) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) UpdateNotes(ctx context.Context, id int64, diagnosis, symptom string) error {
	update := map[string]any{
		"diagnosis": diagnosis,
		"symptom":   symptom,
	}
	tx := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Updates(update)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
