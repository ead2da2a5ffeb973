package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/model"
)

type TelephoneRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]model.Telephone, error)
}

type GormTelephoneRepository struct {
	db *gorm.DB
}

func NewGormTelephoneRepository(db *gorm.DB) *GormTelephoneRepository {
	return &GormTelephoneRepository{db: db}
}

func (r *GormTelephoneRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Telephone, error) {
	if len(ids) == 0 {
		return []model.Telephone{}, nil
	}
	var phones []model.Telephone
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}
