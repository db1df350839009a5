package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-reservation/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

// RoomTypePatch carries only the fields a partial update touches.
type RoomTypePatch struct {
	Name          *string
	Description   *string
	Capacity      *uint
	PricePerNight *uint
}

func validateRoomType(rt models.RoomType) error {
	if err := validate.Struct(rt); err != nil {
		return &ValidationError{Code: "error.invalidRoomType", Message: validationMessage(err), Err: err}
	}
	return nil
}

// validationMessage turns validator output into "field: rule" pairs.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func (s *RoomTypeService) Create(ctx context.Context, rt *models.RoomType) error {
	rt.Name = strings.TrimSpace(rt.Name)
	if err := validateRoomType(*rt); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("failed to create room type: %w", err)
	}
	return nil
}

// List orders room types by capacity, smallest first.
func (s *RoomTypeService) List(ctx context.Context) ([]models.RoomType, error) {
	types := []models.RoomType{}
	if err := s.DB.WithContext(ctx).Order("capacity, id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return types, nil
}

func (s *RoomTypeService) Get(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, notFound("room type", id, err)
	}
	return &rt, nil
}

func (s *RoomTypeService) Update(ctx context.Context, id uint, patch RoomTypePatch) (*models.RoomType, error) {
	rt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		rt.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		rt.Description = *patch.Description
	}
	if patch.Capacity != nil {
		rt.Capacity = *patch.Capacity
	}
	if patch.PricePerNight != nil {
		rt.PricePerNight = *patch.PricePerNight
	}
	if err := validateRoomType(*rt); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&models.RoomType{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":            rt.Name,
		"description":     rt.Description,
		"capacity":        rt.Capacity,
		"price_per_night": rt.PricePerNight,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update room type %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes the room type with its rooms and their reservations.
func (s *RoomTypeService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt models.RoomType
		if err := tx.First(&rt, id).Error; err != nil {
			return notFound("room type", id, err)
		}
		rooms := tx.Model(&models.Room{}).Select("id").Where("room_type_id = ?", id)
		if err := tx.Where("assigned_room_id IN (?)", rooms).Delete(&models.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to delete reservations of room type %d: %w", id, err)
		}
		if err := tx.Where("room_type_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return fmt.Errorf("failed to delete rooms of room type %d: %w", id, err)
		}
		if err := tx.Delete(&rt).Error; err != nil {
			return fmt.Errorf("failed to delete room type %d: %w", id, err)
		}
		return nil
	})
}
