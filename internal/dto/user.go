// Package dto holds the wire views of the entities. Each view is a flat
// struct built for one use case; none of them carries the password hash.
package dto

import "github.com/Leganyst/naconsulta/internal/model"

// UserMin is the listing view.
type UserMin struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Email     string `json:"email"`
}

// UserForm is returned after insert and update.
type UserForm struct {
	ID        int64          `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Gender    string         `json:"gender"`
	Email     string         `json:"email"`
	Phones    []TelephoneDTO `json:"phones"`
	Roles     []RoleDTO      `json:"roles"`
}

// UserMax is the profile view.
type UserMax struct {
	ID           int64            `json:"id"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	Gender       string           `json:"gender"`
	Email        string           `json:"email"`
	Phones       []TelephoneDTO   `json:"phones"`
	Roles        []RoleDTO        `json:"roles"`
	Appointments []AppointmentDTO `json:"appointments"`
}

// UserInsert is the registration payload. Roles and Phones reference
// existing rows by id.
type UserInsert struct {
	FirstName string  `json:"firstName" validate:"required,max=120"`
	LastName  string  `json:"lastName" validate:"max=120"`
	Gender    string  `json:"gender" validate:"max=16"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=6,max=72"`
	Roles     []int64 `json:"roles" validate:"dive,gt=0"`
	Phones    []int64 `json:"phones" validate:"dive,gt=0"`
}

// UserUpdate is the profile update payload. The password is not changed here.
type UserUpdate struct {
	FirstName string  `json:"firstName" validate:"required,max=120"`
	LastName  string  `json:"lastName" validate:"max=120"`
	Gender    string  `json:"gender" validate:"max=16"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Roles     []int64 `json:"roles" validate:"dive,gt=0"`
	Phones    []int64 `json:"phones" validate:"dive,gt=0"`
}

func NewUserMin(u *model.User) UserMin {
	return UserMin{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Email:     u.Email,
	}
}

func NewUserMins(users []model.User) []UserMin {
	out := make([]UserMin, 0, len(users))
	for i := range users {
		out = append(out, NewUserMin(&users[i]))
	}
	return out
}

func NewUserForm(u *model.User) UserForm {
	return UserForm{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Email:     u.Email,
		Phones:    NewTelephones(u.Phones),
		Roles:     NewRoles(u.Roles),
	}
}

func NewUserMax(u *model.User) UserMax {
	return UserMax{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Gender:       u.Gender,
		Email:        u.Email,
		Phones:       NewTelephones(u.Phones),
		Roles:        NewRoles(u.Roles),
		Appointments: NewAppointments(u.Appointments),
	}
}
