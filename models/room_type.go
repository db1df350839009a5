package models

import (
	"time"
)

// RoomType is a category of room with a fixed capacity and a flat nightly price.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name          string `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Description   string `gorm:"type:text" json:"description"`
	Capacity      uint   `gorm:"not null" json:"capacity" validate:"min=1,max=10"`
	PricePerNight uint   `gorm:"column:price_per_night;not null" json:"price_per_night"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// ลบประเภทห้องแล้วห้องทั้งหมดของประเภทนั้นถูกลบตาม
	Rooms []Room `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:CASCADE" json:"-"`
}
