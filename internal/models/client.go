package models

import "time"

// Client of the shop, no login, owned by the staff user who registered it.
type Client struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"index;not null" json:"ownerId"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Surname string `gorm:"size:100" json:"surname"`
	Phone   string `gorm:"size:30;not null" json:"phone"`
	Notes   string `gorm:"size:500" json:"notes"`

	Appointments []Appointment `gorm:"foreignKey:ClientID" json:"appointments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
