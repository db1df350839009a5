// services/reservation_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hotel-reservation/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	lockAttempts = 3
)

var errRoomTypeMoved = errors.New("room type changed while waiting for lock")

// ReservationService owns every write that can affect room occupancy.
type ReservationService struct {
	DB     *gorm.DB
	Mailer Mailer
	Now    func() time.Time

	locks *roomTypeLocks
}

func NewReservationService(db *gorm.DB, mailer Mailer) *ReservationService {
	return &ReservationService{
		DB:     db,
		Mailer: mailer,
		Now:    time.Now,
		locks:  newRoomTypeLocks(),
	}
}

type CreateReservationInput struct {
	UserID     *uint
	RoomTypeID uint
	Stay       Stay
}

// ReservationFilter mirrors the list query string. StartDate keeps reservations that check
// out on or after it; EndDate keeps reservations that check in on or after it.
type ReservationFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

type ReservationPage struct {
	Count    int64                `json:"count"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Results  []models.Reservation `json:"results"`
}

func (s *ReservationService) today() time.Time {
	return models.DateOf(s.Now())
}

func normalizeStay(stay Stay) Stay {
	return Stay{CheckIn: models.DateOf(stay.CheckIn), CheckOut: models.DateOf(stay.CheckOut)}
}

// withRoomTypeLock resolves the room type a write depends on, locks it in-process and as a
// database row, then runs fn in the same transaction. fn returns errRoomTypeMoved when the
// data it re-read no longer belongs to roomTypeID; the whole sequence is then retried.
func (s *ReservationService) withRoomTypeLock(
	ctx context.Context,
	resolve func(db *gorm.DB) (uint, error),
	fn func(tx *gorm.DB, roomTypeID uint) error,
) error {
	db := s.DB.WithContext(ctx)
	for attempt := 0; attempt < lockAttempts; attempt++ {
		roomTypeID, err := resolve(db)
		if err != nil {
			return err
		}

		unlock := s.locks.Lock(roomTypeID)
		err = db.Transaction(func(tx *gorm.DB) error {
			var rt models.RoomType
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rt, roomTypeID).Error; err != nil {
				return notFound("room type", roomTypeID, err)
			}
			return fn(tx, roomTypeID)
		})
		unlock()

		if !errors.Is(err, errRoomTypeMoved) {
			return err
		}
		log.Printf("room type %d changed while waiting for lock (attempt %d) - retrying", roomTypeID, attempt+1)
	}
	return fmt.Errorf("failed to lock room type: %w", errRoomTypeMoved)
}

// activeReservationsByRoom loads reservations of the given rooms that check out on or after today.
func activeReservationsByRoom(tx *gorm.DB, roomIDs []uint, today time.Time) (map[uint][]models.Reservation, error) {
	out := make(map[uint][]models.Reservation, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}
	var list []models.Reservation
	if err := tx.
		Where("assigned_room_id IN ? AND check_out_date >= ?", roomIDs, today).
		Order("check_in_date").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	for _, r := range list {
		out[r.AssignedRoomID] = append(out[r.AssignedRoomID], r)
	}
	return out, nil
}

// lockReservation re-reads the reservation as a locking read, so edits of the same
// reservation that hold different room type locks still see each other's commits.
func lockReservation(tx *gorm.DB, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error; err != nil {
		return nil, notFound("reservation", id, err)
	}
	return &res, nil
}

// overlappingOnRoom loads reservations on roomID, other than excludeID, that overlap stay.
func overlappingOnRoom(tx *gorm.DB, roomID uint, stay Stay, excludeID uint) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := tx.
		Where("assigned_room_id = ? AND id <> ? AND check_in_date < ? AND check_out_date > ?",
			roomID, excludeID, stay.CheckOut, stay.CheckIn).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to check conflicting reservations: %w", err)
	}
	return list, nil
}

// Create validates the requested stay, assigns the first free room of the requested type,
// and stores the reservation. Both steps share one transaction under the room type lock.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	stay := normalizeStay(in.Stay)
	today := s.today()
	if err := ValidateNewStay(stay, today); err != nil {
		return nil, err
	}

	if in.UserID != nil {
		var user models.User
		if err := s.DB.WithContext(ctx).First(&user, *in.UserID).Error; err != nil {
			return nil, notFound("user", *in.UserID, err)
		}
	}

	var created models.Reservation
	err := s.withRoomTypeLock(ctx,
		func(*gorm.DB) (uint, error) { return in.RoomTypeID, nil },
		func(tx *gorm.DB, roomTypeID uint) error {
			var rooms []models.Room
			if err := tx.Where("room_type_id = ?", roomTypeID).Order("id").Find(&rooms).Error; err != nil {
				return fmt.Errorf("failed to load rooms: %w", err)
			}
			roomIDs := make([]uint, 0, len(rooms))
			for _, r := range rooms {
				roomIDs = append(roomIDs, r.ID)
			}

			active, err := activeReservationsByRoom(tx, roomIDs, today)
			if err != nil {
				return err
			}
			room, err := FindAvailableRoom(rooms, active, stay, today)
			if err != nil {
				return err
			}

			created = models.Reservation{
				UserID:         in.UserID,
				CheckInDate:    datatypes.Date(stay.CheckIn),
				CheckOutDate:   datatypes.Date(stay.CheckOut),
				AssignedRoomID: room.ID,
			}
			if err := tx.Create(&created).Error; err != nil {
				return fmt.Errorf("failed to create reservation: %w", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	res, err := s.Get(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	s.notifyCreated(ctx, res)
	return res, nil
}

// UpdateDates moves a reservation to a new stay on its current room.
func (s *ReservationService) UpdateDates(ctx context.Context, id uint, stay Stay) (*models.Reservation, error) {
	stay = normalizeStay(stay)
	if err := ValidateStayOrder(stay); err != nil {
		return nil, err
	}

	err := s.withRoomTypeLock(ctx,
		func(db *gorm.DB) (uint, error) {
			var res models.Reservation
			if err := db.Preload("AssignedRoom").First(&res, id).Error; err != nil {
				return 0, notFound("reservation", id, err)
			}
			return res.AssignedRoom.RoomTypeID, nil
		},
		func(tx *gorm.DB, roomTypeID uint) error {
			res, err := lockReservation(tx, id)
			if err != nil {
				return err
			}
			var current models.Room
			if err := tx.First(&current, res.AssignedRoomID).Error; err != nil {
				return notFound("room", res.AssignedRoomID, err)
			}
			if current.RoomTypeID != roomTypeID {
				return errRoomTypeMoved
			}

			candidates, err := overlappingOnRoom(tx, res.AssignedRoomID, stay, res.ID)
			if err != nil {
				return err
			}
			if FindConflict(candidates, stay, res.ID) != nil {
				return conflictError("There is a conflicting reservation with the same room and new date range.")
			}

			return tx.Model(&models.Reservation{}).Where("id = ?", res.ID).Updates(map[string]interface{}{
				"check_in_date":  datatypes.Date(stay.CheckIn),
				"check_out_date": datatypes.Date(stay.CheckOut),
			}).Error
		})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateRoom reassigns a reservation, keeping its dates, to roomID.
func (s *ReservationService) UpdateRoom(ctx context.Context, id uint, roomID uint) (*models.Reservation, error) {
	err := s.withRoomTypeLock(ctx,
		func(db *gorm.DB) (uint, error) {
			var res models.Reservation
			if err := db.First(&res, id).Error; err != nil {
				return 0, notFound("reservation", id, err)
			}
			var room models.Room
			if err := db.First(&room, roomID).Error; err != nil {
				return 0, notFound("room", roomID, err)
			}
			return room.RoomTypeID, nil
		},
		func(tx *gorm.DB, roomTypeID uint) error {
			var room models.Room
			if err := tx.First(&room, roomID).Error; err != nil {
				return notFound("room", roomID, err)
			}
			if room.RoomTypeID != roomTypeID {
				return errRoomTypeMoved
			}

			res, err := lockReservation(tx, id)
			if err != nil {
				return err
			}
			if res.AssignedRoomID == room.ID {
				return nil
			}

			stay := stayOf(*res)
			candidates, err := overlappingOnRoom(tx, room.ID, stay, res.ID)
			if err != nil {
				return err
			}
			if FindConflict(candidates, stay, res.ID) != nil {
				return conflictError("There is a conflicting reservation with the new room and the existing date range.")
			}

			return tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
				Update("assigned_room_id", room.ID).Error
		})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.DB.WithContext(ctx).Preload("AssignedRoom.RoomType").First(&res, id).Error; err != nil {
		return nil, notFound("reservation", id, err)
	}
	return &res, nil
}

func (s *ReservationService) filtered(ctx context.Context, f ReservationFilter) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if f.StartDate != nil {
		q = q.Where("check_out_date >= ?", models.DateOf(*f.StartDate))
	}
	if f.EndDate != nil {
		q = q.Where("check_in_date >= ?", models.DateOf(*f.EndDate))
	}
	return q
}

// List returns one page of reservations, newest check-in first.
func (s *ReservationService) List(ctx context.Context, f ReservationFilter) (ReservationPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	page := ReservationPage{Page: f.Page, PageSize: f.PageSize, Results: []models.Reservation{}}
	if err := s.filtered(ctx, f).Count(&page.Count).Error; err != nil {
		return page, fmt.Errorf("failed to count reservations: %w", err)
	}
	if err := s.filtered(ctx, f).
		Preload("AssignedRoom.RoomType").
		Order("check_in_date DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&page.Results).Error; err != nil {
		return page, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	return page, nil
}

// All returns every reservation matching f, ignoring pagination.
func (s *ReservationService) All(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	list := []models.Reservation{}
	if err := s.filtered(ctx, f).
		Preload("AssignedRoom.RoomType").
		Order("check_in_date DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	return list, nil
}

func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "reservation", ID: id}
	}
	return nil
}

// notifyCreated mails the owner a confirmation; failures are logged and never fail the booking.
func (s *ReservationService) notifyCreated(ctx context.Context, res *models.Reservation) {
	if s.Mailer == nil || res.UserID == nil {
		return
	}
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, *res.UserID).Error; err != nil {
		log.Printf("warning: cannot load user %d for reservation %d email: %v", *res.UserID, res.ID, err)
		return
	}
	if user.Email == "" {
		return
	}
	if err := s.Mailer.SendReservationConfirmation(user, *res); err != nil {
		log.Printf("warning: reservation %d confirmation email failed: %v", res.ID, err)
	}
}
