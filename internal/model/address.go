package model

// addresses
type Address struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Street       string `gorm:"type:varchar(255);not null"`
	Number       string `gorm:"type:varchar(16)"`
	Complement   string `gorm:"type:varchar(255)"`
	Neighborhood string `gorm:"type:varchar(120);not null;index"`
	City         string `gorm:"type:varchar(120);not null"`
	State        string `gorm:"type:varchar(2)"`
	ZipCode      string `gorm:"type:varchar(16)"`

	Doctors []Doctor `gorm:"many2many:address_doctors;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
