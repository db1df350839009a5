package services

import (
	"time"

	"hotel-reservation/models"
)

// Stay is a half-open occupancy range [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func stayOf(r models.Reservation) Stay {
	return Stay{CheckIn: r.CheckIn(), CheckOut: r.CheckOut()}
}

// Overlaps is the strict half-open test: touching endpoints do not conflict.
func Overlaps(a, b Stay) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// ValidateStayOrder rejects a check-in later than the check-out.
func ValidateStayOrder(stay Stay) error {
	if stay.CheckIn.After(stay.CheckOut) {
		return newValidationError("error.invalidDateRange", "Check-in date cannot be later than check-out date")
	}
	return nil
}

// ValidateNewStay applies the creation rules: ordered dates and a check-in that is not in the past.
func ValidateNewStay(stay Stay, today time.Time) error {
	if err := ValidateStayOrder(stay); err != nil {
		return err
	}
	if stay.CheckIn.Before(models.DateOf(today)) {
		return newValidationError("error.checkInInPast", "Check-in date should be in the future")
	}
	return nil
}

// FindAvailableRoom returns the first room, in the given order, whose active reservations
// do not overlap stay. Reservations that checked out before today are ignored.
// reservations maps a room id to the reservations assigned to that room.
func FindAvailableRoom(rooms []models.Room, reservations map[uint][]models.Reservation, stay Stay, today time.Time) (*models.Room, error) {
	today = models.DateOf(today)
	for i := range rooms {
		room := &rooms[i]
		free := true
		for _, res := range reservations[room.ID] {
			if res.CheckOut().Before(today) {
				continue
			}
			if Overlaps(stayOf(res), stay) {
				free = false
				break
			}
		}
		if free {
			return room, nil
		}
	}
	return nil, &ValidationError{
		Code:    "error.noRoomAvailable",
		Message: "No rooms available for the selected date range and room type.",
		Err:     ErrNoRoomAvailable,
	}
}

// FindConflict returns the first reservation in existing, other than excludeID, that overlaps stay.
func FindConflict(existing []models.Reservation, stay Stay, excludeID uint) *models.Reservation {
	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		if Overlaps(stayOf(existing[i]), stay) {
			return &existing[i]
		}
	}
	return nil
}

func conflictError(message string) error {
	return &ValidationError{
		Code:    "error.conflictingReservation",
		Message: message,
		Err:     ErrConflictingReservation,
	}
}
