package config

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-reservation/models"
	"hotel-reservation/services"

	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func dialector(s Settings) (gorm.Dialector, error) {
	db := s.Database
	switch db.Driver {
	case "", "mysql":
		dsn := db.URL
		if strings.HasPrefix(dsn, "mysql://") {
			var err error
			if dsn, err = mysqlDSNFromURL(dsn); err != nil {
				return nil, err
			}
		}
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				db.User, db.Password, db.Host, db.Port, db.Name)
		}
		return mysql.Open(dsn), nil

	case "postgres", "postgresql":
		dsn := db.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				db.Host, db.Port, db.User, db.Password, db.Name)
		}
		// lib/pq as the database/sql driver so its error codes surface unchanged.
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil

	case "sqlite":
		return sqlite.Open(db.SQLitePath), nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}
}

func logLevel(raw string) logger.LogLevel {
	switch strings.ToLower(raw) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ConnectDatabase opens the configured store, migrates the schema and seeds it.
func ConnectDatabase(s Settings) (*gorm.DB, error) {
	d, err := dialector(s)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logLevel(s.Database.LogLevel),
			Colorful:      true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		Logger:  newLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		if s.Database.Driver == "sqlite" {
			// one writer at a time; SQLite has no row locks
			sqlDB.SetMaxOpenConns(1)
		} else {
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetConnMaxLifetime(30 * time.Minute)
		}
	} else {
		log.Printf("info: cannot get raw sql.DB: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	DB = db

	SeedDatabase(db, s)
	return db, nil
}

// Migrate creates tables in parent -> child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
	)
}

type sampleRoomType struct {
	RoomType models.RoomType
	Numbers  []string
}

var sampleRooms = []sampleRoomType{
	{models.RoomType{Name: "Sea View Room (small)", Description: "Sea View Room with size 30 m2", Capacity: 2, PricePerNight: 120}, []string{"A101", "A102"}},
	{models.RoomType{Name: "Sea View Room (large)", Description: "Sea View Room with size 50 m2", Capacity: 4, PricePerNight: 200}, []string{"A103", "A104"}},
	{models.RoomType{Name: "Pool View Room (small)", Description: "Pool View Room with size 30 m2", Capacity: 2, PricePerNight: 100}, []string{"B101", "B102"}},
	{models.RoomType{Name: "Pool View Room (large)", Description: "Pool View Room with size 50 m2", Capacity: 4, PricePerNight: 180}, []string{"B103", "B104"}},
}

// SeedDatabase is idempotent: it only fills empty tables.
func SeedDatabase(db *gorm.DB, s Settings) {
	ctx := context.Background()

	// ---------------- Admin ----------------
	if s.Seed.AdminPassword != "" {
		created, err := services.NewUserService(db).EnsureAdmin(ctx, s.Seed.AdminUsername, s.Seed.AdminEmail, s.Seed.AdminPassword)
		switch {
		case err != nil:
			log.Printf("warning: failed to create default admin: %v", err)
		case created:
			log.Printf("Default admin %q seeded", s.Seed.AdminUsername)
		}
	}

	// ---------------- RoomTypes / Rooms ----------------
	if !s.Seed.SampleRooms {
		return
	}
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount > 0 {
		log.Println("Room types already seeded")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, sample := range sampleRooms {
			rt := sample.RoomType
			if err := tx.Create(&rt).Error; err != nil {
				return err
			}
			for _, number := range sample.Numbers {
				if err := tx.Create(&models.Room{RoomTypeID: rt.ID, Number: number}).Error; err != nil {
					return err
				}
			}
			log.Printf("Room Type %q has been created, and %d rooms have been added to it.", rt.Name, len(sample.Numbers))
		}
		return nil
	})
	if err != nil {
		log.Printf("warning: failed to seed rooms: %v", err)
	}
}
