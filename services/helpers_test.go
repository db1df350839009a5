package services

import (
	"fmt"
	"testing"
	"time"

	"hotel-reservation/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RoomType{}, &models.Room{}, &models.Reservation{}))
	return db
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(in, out string) Stay {
	return Stay{CheckIn: day(in), CheckOut: day(out)}
}

func seedRoomType(t *testing.T, db *gorm.DB, name string, price uint, numbers ...string) (models.RoomType, []models.Room) {
	t.Helper()
	rt := models.RoomType{Name: name, Capacity: 2, PricePerNight: price}
	require.NoError(t, db.Create(&rt).Error)
	rooms := make([]models.Room, 0, len(numbers))
	for _, n := range numbers {
		room := models.Room{RoomTypeID: rt.ID, Number: n}
		require.NoError(t, db.Create(&room).Error)
		rooms = append(rooms, room)
	}
	return rt, rooms
}

func seedReservation(t *testing.T, db *gorm.DB, roomID uint, in, out string) models.Reservation {
	t.Helper()
	res := models.Reservation{
		CheckInDate:    datatypes.Date(day(in)),
		CheckOutDate:   datatypes.Date(day(out)),
		AssignedRoomID: roomID,
	}
	require.NoError(t, db.Create(&res).Error)
	return res
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	u, err := NewUserService(db).Create(t.Context(), UserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return *u
}

// fixedClock pins "today" for the reservation rules.
func fixedClock(s string) func() time.Time {
	return func() time.Time { return day(s).Add(9 * time.Hour) }
}

type recordingMailer struct {
	sent []uint
	err  error
}

func (m *recordingMailer) SendReservationConfirmation(_ models.User, res models.Reservation) error {
	m.sent = append(m.sent, res.ID)
	return m.err
}
