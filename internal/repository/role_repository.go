package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/model"
)

type RoleRepository interface {
	// Роли по списку ID; отсутствующие ID просто не попадают в результат.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Role, error)
	FindByAuthority(ctx context.Context, authority string) (*model.Role, error)
}

type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	if len(ids) == 0 {
		return []model.Role{}, nil
	}
	var roles []model.Role
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRoleRepository) FindByAuthority(ctx context.Context, authority string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, "authority = ?", authority).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
