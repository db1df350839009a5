package models

import (
	"time"
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomTypeID uint   `gorm:"column:room_type_id;not null;index" json:"room_type"`
	Number     string `gorm:"column:number;type:varchar(10);not null" json:"number"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	RoomType     RoomType      `gorm:"foreignKey:RoomTypeID;references:ID" json:"room_type_info"`
	Reservations []Reservation `gorm:"foreignKey:AssignedRoomID;constraint:OnDelete:CASCADE" json:"-"`
}
