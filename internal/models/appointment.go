package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerID uint  `gorm:"index;not null" json:"ownerId"`
	Owner   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"owner,omitempty"`

	ClientID uint    `gorm:"index;not null" json:"clientId"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client,omitempty"`

	ServiceID *uint    `gorm:"index" json:"serviceId"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	EmployeeID *uint     `gorm:"index" json:"employeeId"`
	Employee   *Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"employee,omitempty"`

	Date        time.Time `gorm:"index;not null" json:"date"`
	Status      string    `gorm:"size:20;default:'pending'" json:"status"`
	Description string    `gorm:"size:255" json:"description"`

	// One booking per slot; see appointment.SlotKey.
	SlotKey string `gorm:"size:120;uniqueIndex;not null" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
