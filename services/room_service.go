package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-reservation/models"

	"gorm.io/gorm"
)

const maxRoomNumberLength = 10

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type RoomPatch struct {
	RoomTypeID *uint
	Number     *string
}

func validateRoomNumber(number string) error {
	if number == "" {
		return newValidationError("error.invalidRoom", "Room number is required.")
	}
	if len(number) > maxRoomNumberLength {
		return newValidationError("error.invalidRoom",
			fmt.Sprintf("Room number must be at most %d characters.", maxRoomNumberLength))
	}
	return nil
}

func (s *RoomService) ensureRoomType(db *gorm.DB, id uint) error {
	var rt models.RoomType
	if err := db.First(&rt, id).Error; err != nil {
		return notFound("room type", id, err)
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	room.Number = strings.TrimSpace(room.Number)
	if err := validateRoomNumber(room.Number); err != nil {
		return err
	}
	db := s.DB.WithContext(ctx)
	if err := s.ensureRoomType(db, room.RoomTypeID); err != nil {
		return err
	}
	if err := db.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return db.Preload("RoomType").First(room, room.ID).Error
}

// List orders rooms by room type, then creation order.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	if err := s.DB.WithContext(ctx).Preload("RoomType").Order("room_type_id, id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, notFound("room", id, err)
	}
	return &room, nil
}

// Update changes the number or type of a room. Existing reservations stay on the room.
func (s *RoomService) Update(ctx context.Context, id uint, patch RoomPatch) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	updates := map[string]interface{}{}
	if patch.Number != nil {
		number := strings.TrimSpace(*patch.Number)
		if err := validateRoomNumber(number); err != nil {
			return nil, err
		}
		updates["number"] = number
	}
	if patch.RoomTypeID != nil && *patch.RoomTypeID != room.RoomTypeID {
		if err := s.ensureRoomType(db, *patch.RoomTypeID); err != nil {
			return nil, err
		}
		updates["room_type_id"] = *patch.RoomTypeID
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update room %d: %w", id, err)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the room and the reservations assigned to it.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, id).Error; err != nil {
			return notFound("room", id, err)
		}
		if err := tx.Where("assigned_room_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to delete reservations of room %d: %w", id, err)
		}
		if err := tx.Delete(&room).Error; err != nil {
			return fmt.Errorf("failed to delete room %d: %w", id, err)
		}
		return nil
	})
}
