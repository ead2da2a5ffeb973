package model

import "time"

// users
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	FirstName string `gorm:"type:varchar(120);not null"`
	LastName  string `gorm:"type:varchar(120)"`
	Gender    string `gorm:"type:varchar(16)"`

	// Email is also the login name.
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Password string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Roles        []Role        `gorm:"many2many:user_roles;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Phones       []Telephone   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Appointments []Appointment `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// HasRole reports whether one of the loaded roles carries authority.
func (u *User) HasRole(authority string) bool {
	for _, r := range u.Roles {
		if r.Authority == authority {
			return true
		}
	}
	return false
}

// Authorities returns the authority names of the loaded roles.
func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Authority)
	}
	return out
}
