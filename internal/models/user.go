package models

import (
	"time"
)

// User is an account that owns mappings. E-mail doubles as the login name,
// matching the original urlcut user model.
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name  string `json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	Password string `json:"-"`
}

func (User) TableName() string {
	return "user"
}
