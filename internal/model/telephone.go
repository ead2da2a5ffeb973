package model

// telephones. A phone has at most one owner; attaching it to a user moves ownership.
type Telephone struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Number string `gorm:"type:varchar(32);not null"`

	UserID *int64 `gorm:"index"`
}
