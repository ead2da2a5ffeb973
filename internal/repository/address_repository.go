package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/model"
)

type AddressRepository interface {
	// Адрес вместе с врачами.
	FindByID(ctx context.Context, id int64) (*model.Address, error)
	// Регистронезависимый поиск по подстроке района.
	SearchByNeighborhood(ctx context.Context, name string) ([]model.Address, error)
}

type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) FindByID(ctx context.Context, id int64) (*model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).Preload("Doctors", orderByName).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAddressRepository) SearchByNeighborhood(ctx context.Context, name string) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.WithContext(ctx).
		Preload("Doctors", orderByName).
		Where("LOWER(neighborhood) LIKE ? ESCAPE '\\'", containsPattern(strings.TrimSpace(name))).
		Order("neighborhood ASC, id ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}
