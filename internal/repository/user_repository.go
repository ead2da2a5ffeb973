package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/naconsulta/internal/model"
)

type UserRepository interface {
	// Пользователь со всеми связями: роли, телефоны, приёмы с врачами.
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// Поиск по email (логин) вместе с ролями.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Поиск по фрагменту имени или фамилии; пустая строка возвращает всех.
	SearchByName(ctx context.Context, name string) ([]model.User, error)
	Create(ctx context.Context, u *model.User) error
	// Обновляет только скалярные поля.
	Update(ctx context.Context, u *model.User) error
	ReplaceRoles(ctx context.Context, u *model.User, roles []model.Role) error
	ReplacePhones(ctx context.Context, u *model.User, phones []model.Telephone) error
	// Удаляет пользователя вместе со связями ролей и телефонами.
	Delete(ctx context.Context, id int64) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Roles", orderByID).
		Preload("Phones", orderByID).
		Preload("Appointments", func(db *gorm.DB) *gorm.DB { return db.Order("moment ASC") }).
		Preload("Appointments.Doctor").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Roles", orderByID).
		Where("email = ?", strings.TrimSpace(email)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) SearchByName(ctx context.Context, name string) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})

	if name = strings.TrimSpace(name); name != "" {
		pattern := containsPattern(name)
		q = q.Where(
			"LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\'",
			pattern, pattern,
		)
	}

	var users []model.User
	if err := q.Order("first_name ASC, last_name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts the user and its role links. Attached phones get their
// user_id rewritten to the new user.
func (r *GormUserRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Omit("Appointments").Create(u).Error
}

func (r *GormUserRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
}

func (r *GormUserRepository) ReplaceRoles(ctx context.Context, u *model.User, roles []model.Role) error {
	assoc := r.db.WithContext(ctx).Model(u).Association("Roles")
	if len(roles) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(roles)
}

// ReplacePhones attaches phones to u and detaches (user_id = NULL) the rest.
func (r *GormUserRepository) ReplacePhones(ctx context.Context, u *model.User, phones []model.Telephone) error {
	assoc := r.db.WithContext(ctx).Model(u).Association("Phones")
	if len(phones) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(phones)
}

// Delete must run inside a transaction: it issues several statements and a
// RESTRICT violation on the last one has to undo the others.
func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	u := &model.User{ID: id}
	if err := db.Model(u).Association("Roles").Clear(); err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&model.Telephone{}).Error; err != nil {
		return err
	}

	tx := db.Delete(&model.User{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
