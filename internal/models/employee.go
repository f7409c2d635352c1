package models

import "time"

// Employee is bookable staff. Without an owner it is shared by every user.
type Employee struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OwnerID *uint `gorm:"index" json:"ownerId"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Phone    string `gorm:"size:30" json:"phone"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
