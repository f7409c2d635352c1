package models

import "time"

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"index;not null" json:"ownerId"`

	Name            string  `gorm:"size:100;not null" json:"name"`
	Price           float64 `gorm:"not null" json:"price"`
	DurationMinutes int     `gorm:"not null" json:"durationMinutes"`
	Category        string  `gorm:"size:50" json:"category"`
	Description     string  `gorm:"size:255" json:"description"`
	IsActive        bool    `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
