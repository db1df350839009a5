package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reservation occupies its assigned room over the half-open range [CheckInDate, CheckOutDate).
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Nullable: deleting a user keeps their reservations.
	UserID *uint `gorm:"column:user_id;index" json:"user"`

	CheckInDate    datatypes.Date `gorm:"column:check_in_date;not null;index" json:"check_in_date"`
	CheckOutDate   datatypes.Date `gorm:"column:check_out_date;not null;index" json:"check_out_date"`
	AssignedRoomID uint           `gorm:"column:assigned_room_id;not null;index" json:"assigned_room"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	User         *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	AssignedRoom Room  `gorm:"foreignKey:AssignedRoomID;references:ID" json:"assigned_room_info"`
}

func (r Reservation) CheckIn() time.Time  { return time.Time(r.CheckInDate) }
func (r Reservation) CheckOut() time.Time { return time.Time(r.CheckOutDate) }

// Nights is the number of nights between check-in and check-out.
func (r Reservation) Nights() int {
	return DaysBetween(r.CheckIn(), r.CheckOut())
}

// Cost is nights times the nightly price of the assigned room's type.
// Zero when the room (or its type) was not loaded.
func (r Reservation) Cost() uint {
	if r.AssignedRoom.ID == 0 || r.Nights() <= 0 {
		return 0
	}
	return r.AssignedRoom.RoomType.PricePerNight * uint(r.Nights())
}

// DaysBetween counts calendar days from a to b, ignoring the time of day.
func DaysBetween(a, b time.Time) int {
	a = DateOf(a)
	b = DateOf(b)
	return int(b.Sub(a).Hours() / 24)
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
