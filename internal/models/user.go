package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Surname  string `gorm:"size:100" json:"surname"`
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	// never serialized
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:30;uniqueIndex;not null" json:"phone"`
	Role         string `gorm:"size:20;default:'user'" json:"role"`

	IsActive           bool `gorm:"default:true" json:"isActive"`
	ForcePasswordReset bool `gorm:"default:false" json:"forcePasswordReset"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
